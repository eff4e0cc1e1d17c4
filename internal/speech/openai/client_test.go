package openai

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeWrapsPCMInWav(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req speechRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pcm", req.ResponseFormat)
		assert.Equal(t, "read this aloud", req.Input)

		w.Write(pcm)
	}))
	defer server.Close()

	client := NewClient("test-key", "", "", server.URL, 5*time.Second)

	wav, err := client.Synthesize(context.Background(), "read this aloud")
	require.NoError(t, err)

	require.Len(t, wav, 44+len(pcm))
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, uint32(pcmSampleRate), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint16(pcmChannels), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav[40:44]))
	assert.Equal(t, pcm, wav[44:])
}

func TestSynthesizeDoesNotRetryOnFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-key", "", "", server.URL, 5*time.Second)

	_, err := client.Synthesize(context.Background(), "read this aloud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speech synthesis failed")
	assert.Equal(t, 1, calls)
}

func TestSynthesizeRejectsEmptyStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("test-key", "", "", server.URL, 5*time.Second)

	_, err := client.Synthesize(context.Background(), "read this aloud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speech synthesis failed")
}

func TestSynthesizeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient("test-key", "", "", server.URL, 20*time.Millisecond)

	_, err := client.Synthesize(context.Background(), "read this aloud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speech synthesis failed")
}

package utils_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/multigh/internal/utils"
)

func TestFlushingWriterFlushesBufferedOutput(testInstance *testing.T) {
	var destination bytes.Buffer
	writer := utils.NewFlushingWriter(bufio.NewWriterSize(&destination, 4096))

	bytesWritten, writeError := writer.Write([]byte("{\"jsonrpc\":\"2.0\"}\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 18, bytesWritten)
	require.Equal(testInstance, "{\"jsonrpc\":\"2.0\"}\n", destination.String())
}

func TestNewFlushingWriterWrapsOnce(testInstance *testing.T) {
	require.Nil(testInstance, utils.NewFlushingWriter(nil))

	var destination bytes.Buffer
	wrapped := utils.NewFlushingWriter(&destination)
	require.Same(testInstance, wrapped, utils.NewFlushingWriter(wrapped))

	_, writeError := wrapped.Write([]byte("plain"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "plain", destination.String())
}

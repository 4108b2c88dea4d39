package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSafeFileName(t *testing.T) {
	require.Equal(t, "receipt.pdf", SafeFileName("receipt.pdf"))
	require.Equal(t, "passwd", SafeFileName("../../etc/passwd"))
	require.Equal(t, "evil.exe", SafeFileName("C:\\tmp\\evil.exe"))
	require.Equal(t, "my_receipt_1_.jpg", SafeFileName("my receipt (1).jpg"))
	require.Equal(t, "file", SafeFileName("..."))

	long := SafeFileName(strings.Repeat("a", 300) + ".pdf")
	require.Len(t, long, 100)
	require.True(t, strings.HasSuffix(long, ".pdf"))
}

func TestBuildStoragePath(t *testing.T) {
	now := time.Unix(1700000000, 0)
	first := BuildStoragePath("exp-1", "receipt.pdf", now)
	second := BuildStoragePath("exp-1", "receipt.pdf", now)
	require.NotEqual(t, first, second)
	require.True(t, strings.HasPrefix(first, "exp-1/1700000000000000000-"))
	require.True(t, strings.HasSuffix(first, "-receipt.pdf"))
}

func TestDetectContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	require.Equal(t, "image/png", DetectContentType(png, "application/pdf"))
	require.True(t, strings.HasPrefix(DetectContentType([]byte("hello"), ""), "text/plain"))
	require.Equal(t, "application/x-custom", DetectContentType([]byte{0x00, 0x01, 0x02, 0x03}, "application/x-custom"))
	require.True(t, IsImage("image/jpeg"))
	require.False(t, IsImage("application/pdf"))
}

package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cdapos/internal/encoding"
)

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "tipo_vehiculo;año\nmotocicleta;248.710\n"
	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// "Año;Tarifa\n" with ñ as 0xF1.
	input := []byte{'A', 0xF1, 'o', ';', 'T', 'a', 'r', 'i', 'f', 'a', '\n'}
	assert.Equal(t, "Año;Tarifa\n", readAll(t, input))
}

func TestNewUTF8Reader_StripsBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Año;Tarifa\n")...)
	assert.Equal(t, "Año;Tarifa\n", readAll(t, input))
}

func TestNewUTF8Reader_LargerThanSample(t *testing.T) {
	input := bytes.Repeat([]byte("motocicleta;0;2;150.000;98.710\n"), 500)
	assert.Equal(t, string(input), readAll(t, input))
}

func TestDetect(t *testing.T) {
	assert.Equal(t, encoding.UTF8, encoding.Detect([]byte("plain ascii")))
	assert.Equal(t, encoding.UTF16LE, encoding.Detect([]byte{0xFF, 0xFE, 'a', 0}))
	assert.Equal(t, encoding.Windows1252, encoding.Detect([]byte{'A', 0xF1, 'o'}))
}

func TestNewWriter_Windows1252(t *testing.T) {
	var buf bytes.Buffer

	w := encoding.NewWriter(&buf, encoding.Windows1252)
	_, err := io.WriteString(w, "Año €")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, []byte{'A', 0xF1, 'o', ' ', 0x80}, buf.Bytes())
}

func TestParseCharset(t *testing.T) {
	cs, err := encoding.ParseCharset("CP1252")
	require.NoError(t, err)
	assert.Equal(t, encoding.Windows1252, cs)

	cs, err = encoding.ParseCharset("")
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, cs)

	_, err = encoding.ParseCharset("ebcdic")
	assert.Error(t, err)
}

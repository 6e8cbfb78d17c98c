package structmap

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pdbLine = "ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N\n"

func TestDetermineDelimiter(t *testing.T) {
	assert.Equal(t, '\t', DetermineDelimiter(strings.NewReader("a\tb\tc\n1\t2\t3\n4\t5\t6\n")))
	assert.Equal(t, ',', DetermineDelimiter(strings.NewReader("a,b,c\n1,2,3\n4,5,6\n")))
	assert.Equal(t, ',', DetermineDelimiter(strings.NewReader("")))
}

func TestDetectDataType(t *testing.T) {
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err := w.Write([]byte(pdbLine))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, DataTypeGzip, DetectDataType(gz.Bytes()))
	assert.Equal(t, DataTypeBZip2, DetectDataType([]byte("BZh91AY")))
	assert.Equal(t, DataTypeNoCompression, DetectDataType([]byte(pdbLine)))
	assert.Equal(t, DataTypeNoCompression, DetectDataType(nil))
}

func TestMaybeDecompressReadCloser(t *testing.T) {
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err := w.Write([]byte(pdbLine))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	for name, in := range map[string][]byte{
		"gzip":  gz.Bytes(),
		"plain": []byte(pdbLine),
	} {
		rc, _, err := MaybeDecompressReadCloser(ioutil.NopCloser(bytes.NewReader(in)))
		require.NoError(t, err, name)

		out, err := ioutil.ReadAll(rc)
		require.NoError(t, err, name)
		assert.Equal(t, pdbLine, string(out), name)
		assert.NoError(t, rc.Close())
	}

	// Shorter than any signature.
	rc, dt, err := MaybeDecompressReadCloser(ioutil.NopCloser(strings.NewReader("END")))
	require.NoError(t, err)
	assert.Equal(t, DataTypeNoCompression, dt)
	out, err := ioutil.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "END", string(out))

	// A truncated bzip2 stream fails on read, not on open.
	rc, dt, err = MaybeDecompressReadCloser(ioutil.NopCloser(strings.NewReader("BZh9")))
	require.NoError(t, err)
	assert.Equal(t, DataTypeBZip2, dt)
	_, err = io.Copy(ioutil.Discard, rc)
	assert.Error(t, err)

	// Empty input passes through.
	rc, dt, err = MaybeDecompressReadCloser(ioutil.NopCloser(strings.NewReader("")))
	require.NoError(t, err)
	assert.Equal(t, DataTypeNoCompression, dt)
	out, err = ioutil.ReadAll(rc)
	require.NoError(t, err)
	assert.Empty(t, out)
	require.NoError(t, rc.Close())
}

func TestOpenLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.pdb.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	w := gzip.NewWriter(f)
	_, err = w.Write([]byte(pdbLine))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	rc, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	defer rc.Close()

	out, err := ioutil.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pdbLine, string(out))

	_, err = Open(context.Background(), filepath.Join(dir, "missing.pdb"), nil)
	assert.Error(t, err)
}

func TestSplitGoogleStoragePath(t *testing.T) {
	bucket, object, err := SplitGoogleStoragePath("gs://bkt/structures/7kox.pdb")
	require.NoError(t, err)
	assert.Equal(t, "bkt", bucket)
	assert.Equal(t, "structures/7kox.pdb", object)

	_, _, err = SplitGoogleStoragePath("gs://bkt")
	assert.Error(t, err)

	assert.True(t, IsGoogleStoragePath("gs://bkt/x"))
	assert.False(t, IsGoogleStoragePath("/tmp/x"))
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/tmp/x", ExpandHome("/tmp/x"))
	assert.Equal(t, "gs://b/x", ExpandHome("gs://b/x"))
	assert.False(t, strings.HasPrefix(ExpandHome("~/x"), "~"))
}

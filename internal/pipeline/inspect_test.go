package pipeline

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectPBF_WrongExtension(t *testing.T) {
	_, err := InspectPBF(context.Background(), "monaco.osrm")
	assert.ErrorIs(t, err, ErrInvalidFileExtension)
}

func TestInspectPBF_MissingFile(t *testing.T) {
	_, err := InspectPBF(context.Background(), filepath.Join(t.TempDir(), "missing.osm.pbf"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestInspectPBF_NotAPBF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.osm.pbf")
	require.NoError(t, os.WriteFile(path, []byte{0, 0, 0, 4, 'n', 'o', 'p', 'e'}, 0644))

	_, err := InspectPBF(context.Background(), path)
	assert.Error(t, err)
}

// Minimal protobuf writers for building an OSMHeader fixture.

func appendTag(b []byte, field, wireType int) []byte {
	return binary.AppendUvarint(b, uint64(field<<3|wireType))
}

func appendVarintField(b []byte, field int, v uint64) []byte {
	return binary.AppendUvarint(appendTag(b, field, 0), v)
}

func appendSint64Field(b []byte, field int, v int64) []byte {
	return appendVarintField(b, field, uint64((v<<1)^(v>>63)))
}

func appendBytesField(b []byte, field int, data []byte) []byte {
	b = binary.AppendUvarint(appendTag(b, field, 2), uint64(len(data)))
	return append(b, data...)
}

// writeHeaderOnlyPBF writes a PBF file holding a single zlib-compressed
// OSMHeader blob.
func writeHeaderOnlyPBF(t *testing.T, path string, replicated time.Time) {
	t.Helper()

	var bbox []byte
	bbox = appendSint64Field(bbox, 1, 7_400_000_000)  // left
	bbox = appendSint64Field(bbox, 2, 7_440_000_000)  // right
	bbox = appendSint64Field(bbox, 3, 43_750_000_000) // top
	bbox = appendSint64Field(bbox, 4, 43_720_000_000) // bottom

	var header []byte
	header = appendBytesField(header, 1, bbox)
	header = appendBytesField(header, 4, []byte("OsmSchema-V0.6"))
	header = appendBytesField(header, 4, []byte("DenseNodes"))
	header = appendBytesField(header, 5, []byte("Sort.Type_then_ID"))
	header = appendBytesField(header, 16, []byte("osmium/1.16.0"))
	header = appendBytesField(header, 17, []byte("https://download.geofabrik.de"))
	header = appendVarintField(header, 32, uint64(replicated.Unix()))

	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	_, err := zw.Write(header)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var blob []byte
	blob = appendVarintField(blob, 2, uint64(len(header)))
	blob = appendBytesField(blob, 3, zbuf.Bytes())

	var blobHeader []byte
	blobHeader = appendBytesField(blobHeader, 1, []byte("OSMHeader"))
	blobHeader = appendVarintField(blobHeader, 3, uint64(len(blob)))

	out := binary.BigEndian.AppendUint32(nil, uint32(len(blobHeader)))
	out = append(out, blobHeader...)
	out = append(out, blob...)
	require.NoError(t, os.WriteFile(path, out, 0644))
}

func TestInspectPBF_ReadsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monaco.osm.pbf")
	replicated := time.Date(2024, 5, 1, 20, 21, 2, 0, time.UTC)
	writeHeaderOnlyPBF(t, path, replicated)

	info, err := InspectPBF(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, info.Path)
	assert.Positive(t, info.Size)
	require.NotNil(t, info.Bounds)
	assert.InDelta(t, 7.40, info.Bounds.MinLon, 1e-9)
	assert.InDelta(t, 7.44, info.Bounds.MaxLon, 1e-9)
	assert.InDelta(t, 43.72, info.Bounds.MinLat, 1e-9)
	assert.InDelta(t, 43.75, info.Bounds.MaxLat, 1e-9)
	assert.Equal(t, "osmium/1.16.0", info.WritingProgram)
	assert.Equal(t, "https://download.geofabrik.de", info.Source)
	assert.Equal(t, []string{"OsmSchema-V0.6", "DenseNodes"}, info.RequiredFeatures)
	assert.Equal(t, []string{"Sort.Type_then_ID"}, info.OptionalFeatures)
	assert.True(t, replicated.Equal(info.ReplicationTimestamp), "got %v", info.ReplicationTimestamp)
}

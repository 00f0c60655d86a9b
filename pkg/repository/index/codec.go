package index

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/domain/model"
)

// Artifact names within the storage backend. A successful ingestion run
// always writes the pair together; both carry the record count so a
// partially written pair is detectable at load time.
const (
	VectorArtifact   = "vectors.bin"
	MetadataArtifact = "meta.json"
)

const (
	vectorMagic   = "PVIX"
	vectorVersion = uint32(1)
)

// metadataFile is the JSON layout of the metadata artifact
type metadataFile struct {
	Count     int                   `json:"count"`
	Dimension int                   `json:"dimension"`
	Records   []model.IndexedRecord `json:"records"`
}

// encodeVectors serializes vectors as a little-endian float32 blob with a
// header of magic, version, count and dimension.
func encodeVectors(dimension int, vectors [][]float32) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(vectorMagic)

	header := []uint32{vectorVersion, uint32(len(vectors)), uint32(dimension)}
	for _, v := range header {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, goerr.Wrap(err, "failed to write vector header")
		}
	}

	for i, vec := range vectors {
		if len(vec) != dimension {
			return nil, goerr.Wrap(ErrDimensionMismatch, "vector dimension mismatch at encode",
				goerr.V("ordinal", i),
				goerr.V("expected", dimension),
				goerr.V("actual", len(vec)))
		}
		if err := binary.Write(&buf, binary.LittleEndian, vec); err != nil {
			return nil, goerr.Wrap(err, "failed to write vector payload", goerr.V("ordinal", i))
		}
	}

	return buf.Bytes(), nil
}

// decodeVectors parses a vector blob back into its dimension and vectors
func decodeVectors(data []byte) (int, [][]float32, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, len(vectorMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != vectorMagic {
		return 0, nil, goerr.Wrap(ErrIndexCorrupt, "bad vector blob magic")
	}

	var version, count, dimension uint32
	for _, dst := range []*uint32{&version, &count, &dimension} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return 0, nil, goerr.Wrap(ErrIndexCorrupt, "truncated vector header")
		}
	}
	if version != vectorVersion {
		return 0, nil, goerr.Wrap(ErrIndexCorrupt, "unsupported vector blob version",
			goerr.V("version", version))
	}
	if dimension == 0 {
		return 0, nil, goerr.Wrap(ErrIndexCorrupt, "zero vector dimension")
	}

	// The header is untrusted until its count and dimension agree with the
	// actual payload size; allocating from a corrupt header could abort the
	// process instead of reporting a not-ready index. Compared in float32
	// units so the product cannot wrap for any uint32 pair.
	if r.Len()%4 != 0 || uint64(count)*uint64(dimension) != uint64(r.Len())/4 {
		return 0, nil, goerr.Wrap(ErrIndexCorrupt, "vector payload size disagrees with header",
			goerr.V("count", count),
			goerr.V("dimension", dimension),
			goerr.V("payloadBytes", r.Len()))
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		vec := make([]float32, dimension)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return 0, nil, goerr.Wrap(ErrIndexCorrupt, "truncated vector payload",
				goerr.V("ordinal", i))
		}
		vectors[i] = vec
	}

	return int(dimension), vectors, nil
}

// encodeMetadata serializes the metadata artifact
func encodeMetadata(dimension int, records []model.IndexedRecord) ([]byte, error) {
	data, err := json.MarshalIndent(metadataFile{
		Count:     len(records),
		Dimension: dimension,
		Records:   records,
	}, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal index metadata")
	}
	return data, nil
}

// decodeMetadata parses the metadata artifact and cross-checks its own
// count field against the record list.
func decodeMetadata(data []byte) (*metadataFile, error) {
	var meta metadataFile
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, goerr.Wrap(ErrIndexCorrupt, "failed to parse index metadata")
	}
	if meta.Count != len(meta.Records) {
		return nil, goerr.Wrap(ErrIndexCorrupt, "metadata count field disagrees with record list",
			goerr.V("count", meta.Count),
			goerr.V("records", len(meta.Records)))
	}
	return &meta, nil
}

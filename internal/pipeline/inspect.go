package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// PBFInfo summarizes the header block of an .osm.pbf extract.
type PBFInfo struct {
	Path                 string
	Size                 int64
	ModTime              time.Time
	Bounds               *osm.Bounds
	WritingProgram       string
	Source               string
	RequiredFeatures     []string
	OptionalFeatures     []string
	ReplicationTimestamp time.Time
}

// InspectPBF reads the header of an .osm.pbf file without decoding any
// entities.
func InspectPBF(ctx context.Context, file string) (*PBFInfo, error) {
	if err := ValidateExtension(file, ExtPBF); err != nil {
		return nil, err
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", file, err)
	}

	scanner := osmpbf.New(ctx, f, 1)
	defer scanner.Close()

	header, err := scanner.Header()
	if err != nil {
		return nil, fmt.Errorf("read pbf header %s: %w", file, err)
	}

	return &PBFInfo{
		Path:                 file,
		Size:                 stat.Size(),
		ModTime:              stat.ModTime(),
		Bounds:               header.Bounds,
		WritingProgram:       header.WritingProgram,
		Source:               header.Source,
		RequiredFeatures:     header.RequiredFeatures,
		OptionalFeatures:     header.OptionalFeatures,
		ReplicationTimestamp: header.ReplicationTimestamp,
	}, nil
}

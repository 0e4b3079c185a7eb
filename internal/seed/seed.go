package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/blogql/internal/model"
)

//go:embed default.yaml
var defaultYAML []byte

//go:embed schema.cue
var schemaCUE string

// Default returns a fresh copy of the demo dataset: two users, three posts
// (the second unpublished) and four comments.
func Default() *model.Dataset {
	ds, err := DecodeYAML(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("seed: embedded dataset is invalid: %v", err))
	}
	return ds
}

// LoadFile reads a dataset from path, choosing the decoder by extension,
// and validates it.
func LoadFile(path string) (*model.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var ds *model.Dataset
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		ds, err = DecodeYAML(data)
	case ".cue":
		ds, err = DecodeCUE(path, data)
	default:
		return nil, fmt.Errorf("unsupported seed file extension %q (want .yaml, .yml or .cue)", ext)
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// DecodeYAML parses a YAML dataset with strict field checking.
// The result is not validated.
func DecodeYAML(data []byte) (*model.Dataset, error) {
	var ds model.Dataset
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	normalize(&ds)
	return &ds, nil
}

// DecodeCUE compiles a CUE dataset, unifies it with #Dataset and decodes the
// concrete result. filename is used in error positions only.
// The result is not validated.
func DecodeCUE(filename string, data []byte) (*model.Dataset, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("seed/schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling seed schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compiling CUE dataset: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Dataset")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("CUE dataset does not match schema: %w", err)
	}

	var ds model.Dataset
	if err := unified.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decoding CUE dataset: %w", err)
	}
	normalize(&ds)
	return &ds, nil
}

// normalize replaces nil collections with empty ones.
func normalize(ds *model.Dataset) {
	if ds.Users == nil {
		ds.Users = []model.User{}
	}
	if ds.Posts == nil {
		ds.Posts = []model.Post{}
	}
	if ds.Comments == nil {
		ds.Comments = []model.Comment{}
	}
}

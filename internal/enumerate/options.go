package enumerate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultRoot is the directory enumerated when no root is configured.
	DefaultRoot = "defaultrc"
	// DefaultManifestName is the file name of the manifest written under the root.
	DefaultManifestName = "enumerated.txt"
)

// ErrInvalidOptions is returned when Options fail validation.
var ErrInvalidOptions = errors.New("invalid enumerate options")

// Order controls how collected entries are arranged in the manifest.
type Order string

const (
	// OrderSorted sorts entries lexicographically by code point.
	OrderSorted Order = "sorted"
	// OrderTraversal keeps the order in which the walk produced entries:
	// each directory's files, then its subdirectories, both in the raw
	// order the filesystem lists them. That order depends on the
	// filesystem and is not reproducible across machines.
	OrderTraversal Order = "traversal"
)

// ParseOrder converts a string to an Order. The empty string maps to OrderSorted.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderSorted:
		return OrderSorted, nil
	case OrderTraversal:
		return OrderTraversal, nil
	default:
		return "", fmt.Errorf("%w: unknown order %q (want %q or %q)", ErrInvalidOptions, s, OrderSorted, OrderTraversal)
	}
}

// Options configures a manifest run.
type Options struct {
	Root         string      // directory to enumerate
	ManifestName string      // file name of the manifest inside Root
	Order        Order       // entry ordering policy
	Logger       *zap.Logger // nil disables logging
}

// DefaultOptions returns options matching the historical behavior:
// enumerate ./defaultrc into defaultrc/enumerated.txt, sorted.
func DefaultOptions() Options {
	return Options{
		Root:         DefaultRoot,
		ManifestName: DefaultManifestName,
		Order:        OrderSorted,
	}
}

// ManifestPath returns the filesystem path of the manifest file.
func (o Options) ManifestPath() string {
	return filepath.Join(o.Root, o.ManifestName)
}

// Validate checks that the options can be used for a run.
func (o Options) Validate() error {
	if o.Root == "" {
		return fmt.Errorf("%w: root directory is empty", ErrInvalidOptions)
	}
	if o.ManifestName == "" {
		return fmt.Errorf("%w: manifest name is empty", ErrInvalidOptions)
	}
	if o.ManifestName == "." || o.ManifestName == ".." || strings.ContainsAny(o.ManifestName, `/\`) {
		return fmt.Errorf("%w: manifest name %q must be a plain file name", ErrInvalidOptions, o.ManifestName)
	}
	if _, err := ParseOrder(string(o.Order)); err != nil {
		return err
	}
	return nil
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/utils/logging"
	"github.com/ava-labs/orchestrator/utils/perms"
)

// FileName is the name of the persisted catch-up package. It includes the
// encoded type for ease of debugging.
const FileName = "cup.types.v1.CatchUpPackage.pb"

var ErrPersist = errors.New("failed to persist catch-up package")

// Store keeps the accepted catch-up package of this node on disk.
type Store struct {
	log  logging.Logger
	dir  string
	path string
}

func NewStore(log logging.Logger, dir string) *Store {
	return &Store{
		log:  log,
		dir:  dir,
		path: filepath.Join(dir, FileName),
	}
}

// Path returns the file the catch-up package is persisted to.
func (s *Store) Path() string {
	return s.path
}

// Persist atomically replaces the persisted catch-up package with the exact
// bytes of [pkg]. Readers observe either the previous file or the new one,
// never a partial write.
func (s *Store) Persist(pkg *cup.CatchUpPackage) (string, error) {
	s.log.Info("persisting catch-up package",
		zap.Uint64("height", pkg.Height),
		zap.Uint64("registryVersion", pkg.RegistryVersion),
		zap.String("path", s.path),
	)

	if err := os.MkdirAll(s.dir, perms.ReadWriteExecute); err != nil {
		return "", fmt.Errorf("%w: couldn't create %q: %w", ErrPersist, s.dir, err)
	}
	if err := renameio.WriteFile(s.path, pkg.Bytes(), perms.ReadWrite, renameio.WithTempDir(s.dir)); err != nil {
		return "", fmt.Errorf("%w: couldn't write %q: %w", ErrPersist, s.path, err)
	}
	return s.path, nil
}

// Load returns the persisted catch-up package. A missing file is expected on
// first boot. An unreadable or corrupt file is logged and treated as missing.
func (s *Store) Load() *cup.CatchUpPackage {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.log.Warn("couldn't read persisted catch-up package",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return nil
	}

	pkg, err := cup.Parse(b)
	if err != nil {
		s.log.Warn("failed to parse persisted catch-up package",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return nil
	}
	return pkg
}

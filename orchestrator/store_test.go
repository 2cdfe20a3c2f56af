// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/orchestrator/utils/logging"
)

func TestStorePath(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(logging.NoLog{}, dir)
	require.Equal(t, filepath.Join(dir, "cup.types.v1.CatchUpPackage.pb"), s.Path())
}

func TestStorePersistLoadRoundTrip(t *testing.T) {
	require := require.New(t)

	s := NewStore(logging.NoLog{}, filepath.Join(t.TempDir(), "nested", "dir"))
	require.Nil(s.Load())

	expected := newSignedCUP(10, 2)
	path, err := s.Persist(expected)
	require.NoError(err)
	require.Equal(s.Path(), path)

	onDisk, err := os.ReadFile(path)
	require.NoError(err)
	require.Equal(expected.Bytes(), onDisk)

	loaded := s.Load()
	require.NotNil(loaded)
	require.Equal(expected.Bytes(), loaded.Bytes())
	require.Equal(expected.ContentBytes(), loaded.ContentBytes())
	require.Equal(expected.Content, loaded.Content)
	require.Equal(expected.Signature, loaded.Signature)
}

func TestStorePersistReplaces(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	s := NewStore(logging.NoLog{}, dir)

	_, err := s.Persist(newSignedCUP(10, 2))
	require.NoError(err)
	_, err = s.Persist(newSignedCUP(12, 3))
	require.NoError(err)

	loaded := s.Load()
	require.NotNil(loaded)
	require.Equal(uint64(12), loaded.Height)

	// Only the persisted file remains; no temporary files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(err)
	require.Len(entries, 1)
	require.Equal(FileName, entries[0].Name())
}

func TestStoreLoadCorrupt(t *testing.T) {
	require := require.New(t)

	s := NewStore(logging.NoLog{}, t.TempDir())
	require.NoError(os.WriteFile(s.Path(), []byte{0xff, 0xff, 0xff}, 0o600))
	require.Nil(s.Load())
}

func TestStoreLoadUnreadable(t *testing.T) {
	require := require.New(t)

	s := NewStore(logging.NoLog{}, t.TempDir())
	// A directory at the file's path can't be read as a file.
	require.NoError(os.Mkdir(s.Path(), 0o700))
	require.Nil(s.Load())
}

func TestStorePersistFailure(t *testing.T) {
	require := require.New(t)

	parent := t.TempDir()
	blocker := filepath.Join(parent, "blocker")
	require.NoError(os.WriteFile(blocker, nil, 0o600))

	s := NewStore(logging.NoLog{}, filepath.Join(blocker, "cups"))
	_, err := s.Persist(newSignedCUP(1, 1))
	require.ErrorIs(err, ErrPersist)
}

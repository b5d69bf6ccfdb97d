package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventory-service/internal/core/ports/output"
	"inventory-service/internal/testutil"
)

func TestBackupService_DumpAndRestore(t *testing.T) {
	dumper := &testutil.MockDumper{Payload: []byte("PGDMP")}
	svc := NewBackupService(dumper, t.TempDir(), 0)
	path := filepath.Join(t.TempDir(), "db.dump")

	dumper.On("Dump", mock.Anything).Return(nil)
	dumper.On("Restore", mock.Anything, []byte("PGDMP"), ports.RestoreOptions{Clean: true}).Return(nil)

	require.NoError(t, svc.DumpToFile(context.Background(), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PGDMP", string(data))

	require.NoError(t, svc.RestoreFromFile(context.Background(), path, ports.RestoreOptions{Clean: true}))
	dumper.AssertExpectations(t)
}

func TestBackupService_DumpToFile_RemovesPartial(t *testing.T) {
	dumper := &testutil.MockDumper{}
	svc := NewBackupService(dumper, t.TempDir(), 0)
	path := filepath.Join(t.TempDir(), "db.dump")

	dumper.On("Dump", mock.Anything).Return(errors.New("pg_dump failed"))

	err := svc.DumpToFile(context.Background(), path)
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBackupService_DumpToFile_KeepsPreviousArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.dump")
	require.NoError(t, os.WriteFile(path, []byte("GOOD"), 0o600))

	dumper := &testutil.MockDumper{}
	dumper.On("Dump", mock.Anything).Return(errors.New("pg_dump failed"))
	svc := NewBackupService(dumper, dir, 0)

	require.Error(t, svc.DumpToFile(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "GOOD", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestBackupService_DumpToFile_ReplacesOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.dump")
	require.NoError(t, os.WriteFile(path, []byte("OLD"), 0o600))

	dumper := &testutil.MockDumper{Payload: []byte("NEW")}
	dumper.On("Dump", mock.Anything).Return(nil)
	svc := NewBackupService(dumper, dir, 0)

	require.NoError(t, svc.DumpToFile(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "NEW", string(data))
}

func TestBackupService_RestoreFromFile_Missing(t *testing.T) {
	svc := NewBackupService(&testutil.MockDumper{}, t.TempDir(), 0)

	err := svc.RestoreFromFile(context.Background(), filepath.Join(t.TempDir(), "nope.dump"), ports.RestoreOptions{})
	assert.Error(t, err)
}

func TestBackupService_RunScheduled_Prunes(t *testing.T) {
	dir := t.TempDir()
	dumper := &testutil.MockDumper{Payload: []byte("x")}
	dumper.On("Dump", mock.Anything).Return(nil)
	svc := NewBackupService(dumper, dir, 2)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var paths []string
	for i := 0; i < 3; i++ {
		at := start.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		path, err := svc.RunScheduled(context.Background())
		require.NoError(t, err)
		paths = append(paths, path)
	}

	assert.Equal(t, filepath.Join(dir, "inventory-20240101-000000.dump"), paths[0])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "inventory-20240101-010000.dump", entries[0].Name())
	assert.Equal(t, "inventory-20240101-020000.dump", entries[1].Name())
}

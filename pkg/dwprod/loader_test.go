package dwprod

import (
	"debug/dwarf"
	"debug/elf"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "text", data: []byte("#!/bin/sh\necho hello\n")},
		{name: "short", data: []byte{0x7f, 'E'}},
		{name: "truncated elf", data: []byte{0x7f, 'E', 'L', 'F', 2, 1, 1}},
		{name: "truncated pe", data: []byte("MZ\x90\x00")},
		{name: "truncated mach-o", data: []byte{0xcf, 0xfa, 0xed, 0xfe, 0x07}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(tt.data)
			assert.ErrorIs(t, err, ErrUnsupportedContainerFormat)
		})
	}
}

func TestOpen_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	_, err := Open(path, newTestConfig(t))
	assert.ErrorIs(t, err, ErrFileNotFound)

	err = Scan(path, newTestConfig(t), func(*Producers) error {
		t.Fatal("callback must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestOpen_NotAnExecutable(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err := Open(empty, newTestConfig(t))
	assert.ErrorIs(t, err, ErrUnsupportedContainerFormat)

	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("not a binary"), 0o600))
	_, err = Open(text, newTestConfig(t))
	assert.ErrorIs(t, err, ErrUnsupportedContainerFormat)

	_, err = Open(dir, newTestConfig(t))
	assert.Error(t, err)
}

func TestMachOSectionName(t *testing.T) {
	assert.Equal(t, "info", machoSectionName("info"))
	assert.Equal(t, "line_str", machoSectionName("line_str"))
	assert.Equal(t, "str_offs", machoSectionName("str_offsets"))
}

// TestScan_TestBinary cross-checks the running test binary against the
// standard library DWARF reader.
func TestScan_TestBinary(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)

	ef, err := elf.Open(exe)
	if err != nil {
		t.Skipf("test binary is not ELF: %v", err)
	}
	defer func() {
		_ = ef.Close()
	}()

	d, err := ef.DWARF()
	if err != nil {
		t.Skipf("test binary has no usable DWARF: %v", err)
	}

	var want []string
	r := d.Reader()
	for {
		e, err := r.Next()
		require.NoError(t, err)
		if e == nil {
			break
		}
		if e.Tag == dwarf.TagCompileUnit || e.Tag == dwarf.TagPartialUnit {
			if s, ok := e.Val(dwarf.AttrProducer).(string); ok {
				want = append(want, s)
			}
		}
		r.SkipChildren()
	}
	if len(want) == 0 {
		t.Skip("test binary has no producer attributes")
	}

	var got []string
	err = Scan(exe, newTestConfig(t), func(p *Producers) error {
		var err error
		got, err = p.Collect()
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpen_FormatAndClose(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)

	f, err := Open(exe, newTestConfig(t))
	require.NoError(t, err)

	assert.Contains(t, []string{FormatELF, FormatMachO, FormatPE}, f.Format())
	assert.NotNil(t, f.Sections())
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

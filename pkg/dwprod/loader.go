package dwprod

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/go-delve/delve/pkg/dwarf/godwarf"
)

// Container format names reported by SectionLoader.Format.
const (
	FormatELF   = "elf"
	FormatMachO = "macho"
	FormatPE    = "pe"
)

// NewLoader detects the container format of data and returns a loader for its
// debug sections. data must stay valid for the lifetime of the loader.
func NewLoader(data []byte) (SectionLoader, error) {
	switch {
	case bytes.HasPrefix(data, []byte(elf.ELFMAG)):
		f, err := elf.NewFile(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: parse elf: %v", ErrUnsupportedContainerFormat, err)
		}
		return &elfLoader{f: f}, nil

	case isMachO(data):
		f, err := macho.NewFile(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: parse mach-o: %v", ErrUnsupportedContainerFormat, err)
		}
		return &machoLoader{f: f}, nil

	case isFatMachO(data):
		ff, err := macho.NewFatFile(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: parse universal mach-o: %v", ErrUnsupportedContainerFormat, err)
		}
		if len(ff.Arches) == 0 {
			return nil, fmt.Errorf("%w: universal mach-o has no slices", ErrUnsupportedContainerFormat)
		}
		return &machoLoader{f: pickFatArch(ff)}, nil

	case bytes.HasPrefix(data, []byte("MZ")):
		f, err := pe.NewFile(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: parse pe: %v", ErrUnsupportedContainerFormat, err)
		}
		return &peLoader{f: f}, nil
	}

	return nil, fmt.Errorf("%w: unrecognized file magic", ErrUnsupportedContainerFormat)
}

func isMachO(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	switch binary.LittleEndian.Uint32(data) {
	case macho.Magic32, macho.Magic64:
		return true
	}
	switch binary.BigEndian.Uint32(data) {
	case macho.Magic32, macho.Magic64:
		return true
	}
	return false
}

func isFatMachO(data []byte) bool {
	return len(data) >= 4 && binary.BigEndian.Uint32(data) == macho.MagicFat
}

var hostCPU = map[string]macho.Cpu{
	"386":   macho.Cpu386,
	"amd64": macho.CpuAmd64,
	"arm":   macho.CpuArm,
	"arm64": macho.CpuArm64,
	"ppc64": macho.CpuPpc64,
}

// pickFatArch selects the slice matching the host architecture, falling back
// to the first one.
func pickFatArch(ff *macho.FatFile) *macho.File {
	if cpu, ok := hostCPU[runtime.GOARCH]; ok {
		for _, arch := range ff.Arches {
			if arch.Cpu == cpu {
				return arch.File
			}
		}
	}
	return ff.Arches[0].File
}

type elfLoader struct {
	f *elf.File
}

func (l *elfLoader) Section(name string) ([]byte, error) {
	if l.f.Section(".debug_"+name) == nil && l.f.Section(".zdebug_"+name) == nil {
		return nil, nil
	}
	return godwarf.GetDebugSectionElf(l.f, name)
}

func (l *elfLoader) ByteOrder() binary.ByteOrder { return l.f.ByteOrder }

func (l *elfLoader) Format() string { return FormatELF }

type machoLoader struct {
	f *macho.File
}

func (l *machoLoader) Section(name string) ([]byte, error) {
	name = machoSectionName(name)
	if l.f.Section("__debug_"+name) == nil && l.f.Section("__zdebug_"+name) == nil {
		return nil, nil
	}
	return godwarf.GetDebugSectionMacho(l.f, name)
}

// machoSectionName truncates a logical name so that "__debug_"+name fits the
// 16-byte Mach-O section name field.
func machoSectionName(name string) string {
	if limit := 16 - len("__debug_"); len(name) > limit {
		return name[:limit]
	}
	return name
}

func (l *machoLoader) ByteOrder() binary.ByteOrder { return l.f.ByteOrder }

func (l *machoLoader) Format() string { return FormatMachO }

type peLoader struct {
	f *pe.File
}

func (l *peLoader) Section(name string) ([]byte, error) {
	if l.f.Section(".debug_"+name) == nil && l.f.Section(".zdebug_"+name) == nil {
		return nil, nil
	}
	return godwarf.GetDebugSectionPE(l.f, name)
}

// PE images are always little-endian.
func (l *peLoader) ByteOrder() binary.ByteOrder { return binary.LittleEndian }

func (l *peLoader) Format() string { return FormatPE }

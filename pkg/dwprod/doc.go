// Package dwprod reads the DW_AT_producer attribute of every compilation unit
// in a binary's DWARF debug information.
//
// The producer string names the compiler that generated a unit, e.g.
// "GNU C 4.8.5 -O2" or "clang LLVM (rustc version 1.22.0)". Scanning it for
// every unit of a shared library or executable shows which toolchains and
// flags went into the build.
//
// Only the slice of DWARF needed for that is decoded: unit headers (DWARF 2
// to 5, 32- and 64-bit), abbreviation tables, and the attributes of each
// unit's root entry up to DW_AT_producer. Container parsing is delegated to
// debug/elf, debug/macho and debug/pe.
//
// # Usage
//
//	err := dwprod.Scan("path/to/binary", dwprod.DefaultConfig(), func(p *dwprod.Producers) error {
//		for {
//			producer, ok, err := p.Next()
//			if err != nil {
//				return err
//			}
//			if !ok {
//				return nil
//			}
//			fmt.Println(producer)
//		}
//	})
//
// Producers is lazy: each call to Next parses only as many units as needed,
// so a caller may stop at any point. Errors are fatal to a sequence; once Next
// returns an error it keeps returning it.
//
// Units without DW_AT_producer are skipped unless Config.IncludeMissing is
// set. A binary without .debug_info has no units unless
// Config.RequireDebugInfo is set, in which case opening it fails.
package dwprod

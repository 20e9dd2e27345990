// Package elfwriter builds a minimal ET_REL x86-64 object file from an
// assembled code/data pair plus a label and relocation table (§4.7). It
// mirrors debug/elf's own Header64/Section64/Sym64/Rela64 layouts rather
// than hand-rolling struct-to-bytes conversions, since the stdlib already
// defines the exact on-disk shapes this writer needs.
package elfwriter

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"

	"github.com/keurnel/x64asm/architecture/x86_64"
)

const (
	shstrndx = 5
	shnum    = 8
)

var sectionNames = []string{"", ".text", ".data", ".symtab", ".strtab", ".shstrtab", ".rela.text", ".rela.data"}

// alignUp rounds n up to the next multiple of a (a must be a power of two).
func alignUp(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}

// Write assembles code, data, labels and relocs into a complete ET_REL
// object image and returns its bytes. Sections are laid out in the same
// order the original tool used: .text, .data, .symtab, .strtab, .shstrtab,
// .rela.text, .rela.data, with section headers trailing at e_shoff.
//
// Unlike the tool this was learned from, an empty .text or .data reports
// sh_size=0 with no padding byte — the original padded an empty section
// body to one byte and reported that padded size in sh_size.
func Write(result *x86_64.AssemblyResult) ([]byte, error) {
	shstrtab := buildStrtab(sectionNames)
	symNames := make([]string, 0, len(result.Labels))
	for _, l := range result.Labels {
		symNames = append(symNames, l.Name)
	}
	strtab := buildStrtab(append([]string{""}, symNames...))

	var relaText, relaData []elf.Rela64
	for _, r := range result.Relocs {
		if r.TargetLabel < 0 || r.TargetLabel >= len(result.Labels) {
			return nil, fmt.Errorf("elfwriter: relocation references out-of-range label index %d", r.TargetLabel)
		}
		rela := elf.Rela64{
			Off:    uint64(r.PatchOffset),
			Info:   elf.R_INFO(uint32(r.TargetLabel+1), relocType(r.Kind)),
			Addend: 0,
		}
		if r.Section == x86_64.SectionCode {
			relaText = append(relaText, rela)
		} else {
			relaData = append(relaData, rela)
		}
	}

	var buf bytes.Buffer
	buf.Write(make([]byte, elf64EhdrSize))

	textOffset := alignUp(buf.Len(), 16)
	padTo(&buf, textOffset)
	textSize := len(result.Code)
	buf.Write(result.Code)

	dataOffset := alignUp(buf.Len(), 8)
	padTo(&buf, dataOffset)
	dataSize := len(result.Data)
	buf.Write(result.Data)

	symtabOffset := alignUp(buf.Len(), 8)
	padTo(&buf, symtabOffset)
	syms := buildSymtab(result.Labels, strtab.offsets)
	for _, s := range syms {
		binary.Write(&buf, binary.LittleEndian, s)
	}
	symtabSize := buf.Len() - symtabOffset

	strtabOffset := buf.Len()
	buf.Write(strtab.bytes)
	strtabSize := len(strtab.bytes)

	shstrtabOffset := buf.Len()
	buf.Write(shstrtab.bytes)
	shstrtabSize := len(shstrtab.bytes)

	relaTextOffset := alignUp(buf.Len(), 8)
	padTo(&buf, relaTextOffset)
	for _, r := range relaText {
		binary.Write(&buf, binary.LittleEndian, r)
	}
	relaTextSize := buf.Len() - relaTextOffset

	relaDataOffset := alignUp(buf.Len(), 8)
	padTo(&buf, relaDataOffset)
	for _, r := range relaData {
		binary.Write(&buf, binary.LittleEndian, r)
	}
	relaDataSize := buf.Len() - relaDataOffset

	shoff := buf.Len()

	shdrs := []elf.Section64{
		{}, // SHT_NULL
		{
			Name: shstrtab.offsets[".text"], Type: uint32(elf.SHT_PROGBITS),
			Flags: uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR),
			Off:   uint64(textOffset), Size: uint64(textSize), Addralign: 16,
		},
		{
			Name: shstrtab.offsets[".data"], Type: uint32(elf.SHT_PROGBITS),
			Flags: uint64(elf.SHF_ALLOC | elf.SHF_WRITE),
			Off:   uint64(dataOffset), Size: uint64(dataSize), Addralign: 8,
		},
		{
			Name: shstrtab.offsets[".symtab"], Type: uint32(elf.SHT_SYMTAB),
			Off: uint64(symtabOffset), Size: uint64(symtabSize),
			Link: 4, Info: 1, Addralign: 8, Entsize: elf64SymSize,
		},
		{
			Name: shstrtab.offsets[".strtab"], Type: uint32(elf.SHT_STRTAB),
			Off: uint64(strtabOffset), Size: uint64(strtabSize), Addralign: 1,
		},
		{
			Name: shstrtab.offsets[".shstrtab"], Type: uint32(elf.SHT_STRTAB),
			Off: uint64(shstrtabOffset), Size: uint64(shstrtabSize), Addralign: 1,
		},
		{
			Name: shstrtab.offsets[".rela.text"], Type: uint32(elf.SHT_RELA),
			Off: uint64(relaTextOffset), Size: uint64(relaTextSize),
			Link: 3, Info: 1, Addralign: 8, Entsize: elf64RelaSize,
		},
		{
			Name: shstrtab.offsets[".rela.data"], Type: uint32(elf.SHT_RELA),
			Off: uint64(relaDataOffset), Size: uint64(relaDataSize),
			Link: 3, Info: 2, Addralign: 8, Entsize: elf64RelaSize,
		},
	}
	for _, s := range shdrs {
		binary.Write(&buf, binary.LittleEndian, s)
	}

	out := buf.Bytes()
	writeHeader(out, shoff)
	return out, nil
}

const (
	elf64EhdrSize = 64
	elf64SymSize  = 24
	elf64RelaSize = 24
)

func relocType(kind x86_64.RelocKind) uint32 {
	if kind == x86_64.RelocAbs64InData {
		return uint32(elf.R_X86_64_64)
	}
	return uint32(elf.R_X86_64_32)
}

func padTo(buf *bytes.Buffer, target int) {
	if n := target - buf.Len(); n > 0 {
		buf.Write(make([]byte, n))
	}
}

func writeHeader(out []byte, shoff int) {
	var ident [elf.EI_NIDENT]byte
	copy(ident[0:4], "\x7fELF")
	ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	ident[elf.EI_OSABI] = byte(elf.ELFOSABI_NONE)

	hdr := elf.Header64{
		Ident:     ident,
		Type:      uint16(elf.ET_REL),
		Machine:   uint16(elf.EM_X86_64),
		Version:   uint32(elf.EV_CURRENT),
		Ehsize:    elf64EhdrSize,
		Shentsize: 64,
		Shnum:     shnum,
		Shstrndx:  shstrndx,
		Shoff:     uint64(shoff),
	}
	var hbuf bytes.Buffer
	binary.Write(&hbuf, binary.LittleEndian, hdr)
	copy(out[:elf64EhdrSize], hbuf.Bytes())
}

func buildSymtab(labels []x86_64.LabelEntry, strOffsets map[string]uint32) []elf.Sym64 {
	syms := make([]elf.Sym64, 0, len(labels)+1)
	syms = append(syms, elf.Sym64{
		Info:  elf.ST_INFO(elf.STB_LOCAL, elf.STT_NOTYPE),
		Shndx: uint16(elf.SHN_UNDEF),
	})
	for _, l := range labels {
		shndx := uint16(1)
		typ := elf.STT_FUNC
		if l.Section == x86_64.SectionData {
			shndx = 2
			typ = elf.STT_OBJECT
		}
		syms = append(syms, elf.Sym64{
			Name:  strOffsets[l.Name],
			Info:  elf.ST_INFO(elf.STB_GLOBAL, typ),
			Other: byte(elf.STV_DEFAULT),
			Shndx: shndx,
			Value: uint64(l.Address),
		})
	}
	return syms
}

type strtab struct {
	bytes   []byte
	offsets map[string]uint32
}

// buildStrtab serializes names into a single NUL-separated blob starting
// with the mandatory leading NUL, recording each name's byte offset for
// sh_name/st_name fields. The empty string at index 0 is never looked up.
func buildStrtab(names []string) strtab {
	buf := []byte{0}
	offsets := make(map[string]uint32, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := offsets[n]; ok {
			continue
		}
		offsets[n] = uint32(len(buf))
		buf = append(buf, n...)
		buf = append(buf, 0)
	}
	return strtab{bytes: buf, offsets: offsets}
}

package x86_64

// Section identifies which output section a label, relocation, or cursor
// belongs to.
type Section int

const (
	SectionCode Section = iota
	SectionData
)

func (s Section) String() string {
	if s == SectionData {
		return "data"
	}
	return "code"
}

// RelocKind names a relocation's patch width and target section.
type RelocKind int

const (
	RelocAbs32InCode RelocKind = iota
	RelocAbs64InData
)

// LabelEntry is a resolved label: its name, its address (offset within its
// own section), and which section it lives in. Entries are appended only
// during pass 1 and are read-only afterward.
type LabelEntry struct {
	Name    string
	Address uint32
	Section Section
}

// RelocEntry records a relocation site discovered during pass 2: the target
// label (by stable index into the LabelTable, never a copied name), the
// patch offset within Section, and the relocation kind.
type RelocEntry struct {
	TargetLabel int // index into assemblyContext.labels
	PatchOffset uint32
	Section     Section
	Kind        RelocKind
}

// pass identifies which of the two layout passes is currently running.
type pass int

const (
	passSizing pass = iota
	passEmission
)

// assemblyContext is the single explicit value threaded through every
// encoder call. It replaces what the original implementation kept as
// process-global state: the active section, each section's cursor, the
// label table, the relocation table, and the current pass. A fresh
// assemblyContext is created per Assemble call, so independent assemblies
// never share mutable state.
type assemblyContext struct {
	pass    pass
	section Section
	cursor  [2]uint32 // indexed by Section

	labels []LabelEntry
	relocs []RelocEntry

	// elf reports whether the run targets an ELF object (true) or a raw
	// binary image (false). mov reg, labelref emits a relocation only in
	// the ELF case; in binary mode it resolves the address directly.
	elf bool
}

func newAssemblyContext(elf bool) *assemblyContext {
	return &assemblyContext{section: SectionCode, elf: elf}
}

// here returns the current cursor value of the active section — the future
// address of the next emitted byte.
func (c *assemblyContext) here() uint32 {
	return c.cursor[c.section]
}

// advance moves the active section's cursor forward by n bytes.
func (c *assemblyContext) advance(n int) {
	c.cursor[c.section] += uint32(n)
}

// recordLabel appends a label at the current cursor of the active section.
// Only called during pass 1.
func (c *assemblyContext) recordLabel(name string) {
	c.labels = append(c.labels, LabelEntry{Name: name, Address: c.cursor[c.section], Section: c.section})
}

// findLabel looks up a label by name, returning its index and true, or
// (-1, false) if no such label was recorded in pass 1.
func (c *assemblyContext) findLabel(name string) (int, bool) {
	for i, l := range c.labels {
		if l.Name == name {
			return i, true
		}
	}
	return -1, false
}

// recordReloc appends a relocation at the given patch offset within the
// active section, targeting the label at labelIndex. Only called during
// pass 2, and only in ELF mode.
func (c *assemblyContext) recordReloc(labelIndex int, patchOffset uint32, kind RelocKind) {
	c.relocs = append(c.relocs, RelocEntry{TargetLabel: labelIndex, PatchOffset: patchOffset, Section: c.section, Kind: kind})
}

// resetForPass clears the per-pass cursors and (for pass 2) the relocation
// table, and sets the active section back to the initial CODE section. The
// label table is NOT cleared between passes — pass 2 reads it, it does not
// repopulate it.
func (c *assemblyContext) resetForPass(p pass) {
	c.pass = p
	c.section = SectionCode
	c.cursor = [2]uint32{}
	if p == passSizing {
		c.labels = c.labels[:0]
	} else {
		c.relocs = c.relocs[:0]
	}
}

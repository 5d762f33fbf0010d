package models

// Format identifies a supported executable container.
type Format int

const (
	FormatUnknown Format = iota
	// PE images carry a single .rdata section and absolute pointers into it.
	FormatPE
	// Mach-O images carry tagged pointers that resolve to file offsets once masked.
	FormatMachO
)

var formatNames = map[Format]string{
	FormatUnknown: "unknown",
	FormatPE:      "pe",
	FormatMachO:   "macho",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat is the inverse of Format.String.
func ParseFormat(name string) Format {
	for f, n := range formatNames {
		if n == name {
			return f
		}
	}
	return FormatUnknown
}

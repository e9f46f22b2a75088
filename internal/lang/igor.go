package lang

// Igor Pro procedure files. Only function definitions and quoted includes are
// recognized; `#include <Name>` (WaveMetrics procedures) is ignored.
const (
	IgorDefinePattern  = `^Function\s+(\w+)`
	IgorIncludePattern = `^#include\s+"(.+)"`
	IgorExtension      = ".ipf"
)

func init() {
	Languages["igor"] = &Language{
		Name:           "igor",
		Extensions:     []string{IgorExtension},
		DefinePattern:  IgorDefinePattern,
		IncludePattern: IgorIncludePattern,
	}
}

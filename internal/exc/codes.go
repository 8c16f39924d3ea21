package exc

const (
	CodeUnknownFatal          = "O0000"
	CodeFileNotFound          = "O0001"
	CodePermissionDenied      = "O0002"
	CodeUnsupportedFileFormat = "O0003"
	CodeSyntaxError           = "O0004"
	CodeTrailingInput         = "O0005"
	CodeDepthExceeded         = "O0006"
	CodeUnknownRule           = "O0007"
	CodeInvalidConfig         = "O0008"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)

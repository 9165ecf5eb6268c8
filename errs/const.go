package errs

const (
	ErrCode_OK      = 0
	ErrCode_Unknown = 1

	// text values
	ErrCode_InvalidText = 100

	// host loop
	ErrCode_LoopClosed    = 200
	ErrCode_LoopFull      = 201
	ErrCode_LoopReentered = 202

	ErrCode_Config = 300
)

var (
	Unknown       = CreateCodeError(ErrCode_Unknown, "UNKNOWN")
	InvalidText   = CreateCodeError(ErrCode_InvalidText, "INVALID_TEXT")
	LoopClosed    = CreateCodeError(ErrCode_LoopClosed, "LOOP_CLOSED")
	LoopFull      = CreateCodeError(ErrCode_LoopFull, "LOOP_FULL")
	LoopReentered = CreateCodeError(ErrCode_LoopReentered, "LOOP_REENTERED")
	Config        = CreateCodeError(ErrCode_Config, "CONFIG")
)

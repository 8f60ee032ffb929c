package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/hippowm/hippowm/internal/wm"
)

// requestNames covers the core requests the manager issues.
var requestNames = map[uint8]string{
	1:   "CreateWindow",
	2:   "ChangeWindowAttributes",
	3:   "GetWindowAttributes",
	4:   "DestroyWindow",
	6:   "ChangeSaveSet",
	7:   "ReparentWindow",
	8:   "MapWindow",
	10:  "UnmapWindow",
	12:  "ConfigureWindow",
	14:  "GetGeometry",
	15:  "QueryTree",
	16:  "InternAtom",
	18:  "ChangeProperty",
	20:  "GetProperty",
	25:  "SendEvent",
	26:  "GrabPointer",
	27:  "UngrabPointer",
	28:  "GrabButton",
	29:  "UngrabButton",
	33:  "GrabKey",
	34:  "UngrabKey",
	42:  "SetInputFocus",
	43:  "GetInputFocus",
	113: "KillClient",
}

func requestName(major uint8) string {
	if name, ok := requestNames[major]; ok {
		return name
	}
	if major >= 128 {
		return fmt.Sprintf("Extension(%d)", major)
	}
	return fmt.Sprintf("Request(%d)", major)
}

func fromRequestError(code uint8, e xproto.RequestError) wm.Fault {
	return wm.Fault{
		Code:        code,
		Name:        e.NiceName,
		Request:     requestName(e.MajorOpcode),
		MajorOpcode: e.MajorOpcode,
		MinorOpcode: e.MinorOpcode,
		Resource:    e.BadValue,
		Sequence:    e.Sequence,
	}
}

func fromValueError(code uint8, e xproto.ValueError) wm.Fault {
	return wm.Fault{
		Code:        code,
		Name:        e.NiceName,
		Request:     requestName(e.MajorOpcode),
		MajorOpcode: e.MajorOpcode,
		MinorOpcode: e.MinorOpcode,
		Resource:    e.BadValue,
		Sequence:    e.Sequence,
	}
}

// translateError maps an xgb error onto a wm.Fault.
func translateError(err xgb.Error) wm.Fault {
	switch e := err.(type) {
	case xproto.RequestError:
		return fromRequestError(wm.FaultRequest, e)
	case xproto.ValueError:
		return fromValueError(wm.FaultValue, e)
	case xproto.WindowError:
		return fromValueError(wm.FaultWindow, xproto.ValueError(e))
	case xproto.PixmapError:
		return fromValueError(wm.FaultPixmap, xproto.ValueError(e))
	case xproto.AtomError:
		return fromValueError(wm.FaultAtom, xproto.ValueError(e))
	case xproto.CursorError:
		return fromValueError(wm.FaultCursor, xproto.ValueError(e))
	case xproto.FontError:
		return fromValueError(wm.FaultFont, xproto.ValueError(e))
	case xproto.MatchError:
		return fromRequestError(wm.FaultMatch, xproto.RequestError(e))
	case xproto.DrawableError:
		return fromValueError(wm.FaultDrawable, xproto.ValueError(e))
	case xproto.AccessError:
		return fromRequestError(wm.FaultAccess, xproto.RequestError(e))
	case xproto.AllocError:
		return fromRequestError(wm.FaultAlloc, xproto.RequestError(e))
	case xproto.ColormapError:
		return fromValueError(wm.FaultColormap, xproto.ValueError(e))
	case xproto.IDChoiceError:
		return fromValueError(wm.FaultIDChoice, xproto.ValueError(e))
	case xproto.LengthError:
		return fromRequestError(wm.FaultLength, xproto.RequestError(e))
	default:
		return wm.Fault{
			Name:     err.Error(),
			Request:  "unknown",
			Resource: err.BadId(),
			Sequence: err.SequenceId(),
		}
	}
}

// invalidWindow rewrites errors caused by a vanished window so callers can
// match wm.ErrInvalidWindow.
func invalidWindow(op string, win xproto.Window, err error) error {
	if err == nil {
		return nil
	}
	var we xproto.WindowError
	var de xproto.DrawableError
	if errors.As(err, &we) || errors.As(err, &de) {
		return fmt.Errorf("%s 0x%x: %w", op, win, wm.ErrInvalidWindow)
	}
	return fmt.Errorf("%s 0x%x: %w", op, win, err)
}

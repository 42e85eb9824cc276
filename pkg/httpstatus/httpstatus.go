package httpstatus

import "fmt"

// UnknownMessage is the fallback message for codes missing from the registry.
const UnknownMessage = "Unknown Status Code"

// Code is an HTTP status code paired with its canonical message.
// Two codes are equal when their numeric values match.
type Code struct {
	Value   int
	Message string
}

// Well-known codes.
var (
	OK                          = Code{200, "OK"}
	Created                     = Code{201, "Created"}
	Accepted                    = Code{202, "Accepted"}
	NonAuthoritativeInformation = Code{203, "Non-Authoritative Information"}
	NoContent                   = Code{204, "No Content"}
	ResetContent                = Code{205, "Reset Content"}
	PartialContent              = Code{206, "Partial Content"}
	MultiStatus                 = Code{207, "Multi-Status"}
	InternalServerError         = Code{500, "Internal Server Error"}
	NotImplemented              = Code{501, "Not Implemented"}
	BadGateway                  = Code{502, "Bad Gateway"}
	ServiceUnavailable          = Code{503, "Service Unavailable"}
	GatewayTimeout              = Code{504, "Gateway Timeout"}
	VersionNotSupported         = Code{505, "HTTP Version Not Supported"}
	VariantAlsoNegotiates       = Code{506, "Variant Also Negotiates"}
	InsufficientStorage         = Code{507, "Insufficient Storage"}
)

var registry = indexCodes(
	OK,
	Created,
	Accepted,
	NonAuthoritativeInformation,
	NoContent,
	ResetContent,
	PartialContent,
	MultiStatus,
	InternalServerError,
	NotImplemented,
	BadGateway,
	ServiceUnavailable,
	GatewayTimeout,
	VersionNotSupported,
	VariantAlsoNegotiates,
	InsufficientStorage,
)

func indexCodes(codes ...Code) map[int]Code {
	idx := make(map[int]Code, len(codes))
	for _, c := range codes {
		idx[c.Value] = c
	}
	return idx
}

// FromCode returns the registered code for value, or a code carrying UnknownMessage.
func FromCode(value int) Code {
	return FromCodeWithFallback(value, UnknownMessage)
}

// FromCodeWithFallback is FromCode with a caller supplied message for unregistered values.
func FromCodeWithFallback(value int, fallback string) Code {
	if c, ok := registry[value]; ok {
		return c
	}
	return Code{Value: value, Message: fallback}
}

// Known returns every registered code.
func Known() []Code {
	out := make([]Code, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	return out
}

// IsSuccessful reports whether the code is in the 2xx range.
func (c Code) IsSuccessful() bool {
	return c.Value >= 200 && c.Value <= 299
}

// Equal compares codes by numeric value only.
func (c Code) Equal(other Code) bool {
	return c.Value == other.Value
}

func (c Code) String() string {
	return fmt.Sprintf("%d %s", c.Value, c.Message)
}

package client

import (
	"github.com/samvad-hq/items-fetcher/pkg/executor"
	"github.com/samvad-hq/items-fetcher/pkg/httpstatus"
	"github.com/samvad-hq/items-fetcher/pkg/response"
)

// ResponseCallback receives exactly one typed outcome per request.
type ResponseCallback[T any] interface {
	OnItem(status httpstatus.Code, item T)
	OnList(status httpstatus.Code, items []T)
	OnEmpty(status httpstatus.Code)
	OnFailure(err executor.ErrorItem)
}

// httpCallback decodes raw executor outcomes into T and hands them to a
// ResponseCallback through the dispatcher.
type httpCallback[T response.EmptyStater] struct {
	empty      T
	dispatcher Dispatcher
	cb         ResponseCallback[T]
}

// NewHTTPCallback builds the executor callback for element type T. empty is
// the value substituted for a zero-length body.
func NewHTTPCallback[T response.EmptyStater](empty T, d Dispatcher, cb ResponseCallback[T]) executor.Callback {
	if d == nil {
		d = &SerialDispatcher{}
	}
	return &httpCallback[T]{empty: empty, dispatcher: d, cb: cb}
}

func (h *httpCallback[T]) OnSuccess(item executor.ResponseItem) {
	data, err := response.FromResponseItem(item, h.empty)
	if err != nil {
		h.OnFailure(&executor.GenericError{Err: err})
		return
	}

	status := item.Status()
	h.dispatcher.Dispatch(func() {
		switch data.Kind {
		case response.KindItem:
			h.cb.OnItem(status, data.Item)
		case response.KindList:
			h.cb.OnList(status, data.List)
		case response.KindEmpty:
			h.cb.OnEmpty(status)
		default:
			h.cb.OnFailure(&executor.GenericError{Err: &response.DecodeError{Shape: data.Kind.String(), Err: errUnknownKind}})
		}
	})
}

func (h *httpCallback[T]) OnFailure(err executor.ErrorItem) {
	h.dispatcher.Dispatch(func() {
		h.cb.OnFailure(err)
	})
}

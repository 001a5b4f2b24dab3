// Package progress decouples conversion progress reporting from the
// pipeline. The pipeline emits Updates to an Observer; rendering (plain
// console, styled bar, websocket broadcast) lives behind the interface
// with a no-op default.
package progress

// Update describes one progress event.
type Update struct {
	RunID    string `json:"run_id,omitempty"`
	Document string `json:"document,omitempty"`
	Page     int    `json:"page,omitempty"`
	Total    int    `json:"total,omitempty"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// Event statuses emitted by the pipeline and batch driver.
const (
	StatusDocumentStarted = "document_started"
	StatusPageDone        = "page_done"
	StatusDocumentDone    = "document_done"
	StatusDocumentFailed  = "document_failed"
	StatusBatchDone       = "batch_done"
)

// Observer receives progress events. Implementations must be cheap:
// they are called from the page loop.
type Observer interface {
	Notify(Update)
}

// Nop discards all events. It is the default observer.
type Nop struct{}

func (Nop) Notify(Update) {}

// Multi fans an event out to several observers.
type Multi []Observer

func (m Multi) Notify(u Update) {
	for _, o := range m {
		o.Notify(u)
	}
}

// Func adapts a function to the Observer interface.
type Func func(Update)

func (f Func) Notify(u Update) { f(u) }

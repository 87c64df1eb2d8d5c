package logger

import "sync"

// NullLogger discards everything.
type NullLogger struct{}

var _ Logger = (*NullLogger)(nil)

func NewNullLogger() *NullLogger { return &NullLogger{} }

func (*NullLogger) Info(string, map[string]interface{})  {}
func (*NullLogger) Warn(string, map[string]interface{})  {}
func (*NullLogger) Error(error, map[string]interface{})  {}
func (*NullLogger) Fatal(error, map[string]interface{})  {}
func (*NullLogger) Debug(string, map[string]interface{}) {}
func (*NullLogger) SetLevel(Level)                       {}

// Entry is a single line captured by a Recorder.
type Entry struct {
	Level      Level
	Message    string
	Properties map[string]interface{}
}

// Recorder keeps entries in memory so callers can assert on what was logged.
// Fatal is recorded like any other level and never exits.
type Recorder struct {
	mu      sync.Mutex
	min     Level
	entries []Entry
}

var _ Logger = (*Recorder)(nil)

func NewRecorder() *Recorder { return &Recorder{min: LevelDebug} }

func (r *Recorder) record(level Level, msg string, props map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if level < r.min {
		return
	}
	r.entries = append(r.entries, Entry{Level: level, Message: msg, Properties: props})
}

func (r *Recorder) Info(msg string, props map[string]interface{})  { r.record(LevelInfo, msg, props) }
func (r *Recorder) Warn(msg string, props map[string]interface{})  { r.record(LevelWarn, msg, props) }
func (r *Recorder) Debug(msg string, props map[string]interface{}) { r.record(LevelDebug, msg, props) }
func (r *Recorder) Error(err error, props map[string]interface{})  { r.record(LevelError, err.Error(), props) }
func (r *Recorder) Fatal(err error, props map[string]interface{})  { r.record(LevelFatal, err.Error(), props) }

func (r *Recorder) SetLevel(level Level) {
	r.mu.Lock()
	r.min = level
	r.mu.Unlock()
}

// Entries returns a copy of everything recorded at the given level.
func (r *Recorder) Entries(level Level) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

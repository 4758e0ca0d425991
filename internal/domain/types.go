// Package domain holds the values shared by the converter core and its front ends.
package domain

// Request describes the conversion of one source file. It is built per file when a batch
// runs and is not modified afterwards.
type Request struct {
	SourcePath   string
	TargetFormat string
	OutputDir    string // empty means the default Converted directory
}

// Result is the outcome of one Request. Exactly one of OutputPath and Err is set.
type Result struct {
	SourcePath string `json:"sourcePath"`
	OutputPath string `json:"outputPath,omitempty"`
	Err        *Error `json:"-"`
}

// OK reports whether the conversion produced a file.
func (r Result) OK() bool { return r.Err == nil && r.OutputPath != "" }

// Succeeded builds a successful Result.
func Succeeded(src, out string) Result {
	return Result{SourcePath: src, OutputPath: out}
}

// Failed builds a failed Result.
func Failed(src string, err *Error) Result {
	return Result{SourcePath: src, Err: err}
}

// Batch is an ordered list of source files converted with the same target and directory.
type Batch struct {
	SourcePaths  []string
	TargetFormat string
	OutputDir    string
}

// Outcome holds one Result per attempted file, in input order.
type Outcome struct {
	Results []Result
	// Opened is the path handed to the viewer, if any.
	Opened string
	// OpenErr is set when the viewer could not be started.
	OpenErr error
}

// FirstSuccess returns the output path of the earliest successful Result.
func (o Outcome) FirstSuccess() (string, bool) {
	for _, r := range o.Results {
		if r.OK() {
			return r.OutputPath, true
		}
	}
	return "", false
}

// Counts returns the number of successful and failed Results.
func (o Outcome) Counts() (ok, failed int) {
	for _, r := range o.Results {
		if r.OK() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}

// Progress is reported after each file of a running batch.
type Progress struct {
	Index  int // zero-based position in the batch
	Total  int
	Result Result
}

// Settings are the user defaults persisted between sessions.
type Settings struct {
	InputFormat  string `json:"inputFormat"`
	OutputFormat string `json:"outputFormat"`
	SaveLocation string `json:"saveLocation"`
}

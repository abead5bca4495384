package log

import "fmt"

// callerInfo is the resolved, cached identity of a logging call site.
type callerInfo struct {
	file     string
	function string
	line     int
}

func newCallerInfo(file, function string, line int) *callerInfo {
	return &callerInfo{file: file, function: function, line: line}
}

func (c *callerInfo) String() string {
	return fmt.Sprintf("%s:%d:%s", c.file, c.line, c.function)
}

var _UnknownCallerInfo = &callerInfo{file: "unknown", function: "unknown", line: 0}

package tuitest

import (
	"bytes"
	"io"
)

// termReplies answers the probes bubbletea and termenv send at startup;
// without a reply they wait for their own timeouts.
var termReplies = []struct {
	query []byte
	reply []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

// maxTail bounds how much output is kept to match probes split across
// reads.
const maxTail = 256

type responder struct {
	w    io.Writer
	tail []byte
}

func newResponder(w io.Writer) *responder {
	return &responder{w: w, tail: make([]byte, 0, maxTail)}
}

func (r *responder) feed(chunk []byte) {
	r.tail = append(r.tail, chunk...)
	for r.answerOne() {
	}
	if len(r.tail) > maxTail {
		r.tail = r.tail[len(r.tail)-maxTail/4:]
	}
}

// answerOne replies to the earliest probe in the tail and drops everything
// up to it.
func (r *responder) answerOne() bool {
	best, bestIdx := -1, -1
	for i, tr := range termReplies {
		idx := bytes.Index(r.tail, tr.query)
		if idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best, bestIdx = i, idx
		}
	}
	if best < 0 {
		return false
	}
	r.tail = r.tail[bestIdx+len(termReplies[best].query):]
	_, _ = r.w.Write(termReplies[best].reply)
	return true
}

package domain

import "strings"

const FragmentSeparator = "\n\n"

// Composition is the buffered output of a finished longform session.
type Composition struct {
	Requester RequesterID
	Fragments []string
}

func (c Composition) Text() string {
	return strings.Join(c.Fragments, FragmentSeparator)
}

func (c Composition) Empty() bool {
	return len(c.Fragments) == 0
}

// Package model defines the core data types shared across the item query pipeline.
package model

// Line is a single line of item text and whether an extractor has claimed it.
type Line struct {
	Text     string
	Consumed bool
}

// Block is a separator-delimited section of item text.
type Block struct {
	Lines []Line
}

// Document is the tokenized form of one pasted item. It is owned by a single
// parse call and mutated in place as lines are consumed.
type Document struct {
	Blocks []Block
}

// LineRef addresses a line inside a Document.
type LineRef struct {
	Block int
	Line  int
}

// Line returns the line addressed by ref. It panics on an out-of-range ref.
func (d *Document) Line(ref LineRef) *Line {
	return &d.Blocks[ref.Block].Lines[ref.Line]
}

// Consume marks the referenced line as claimed.
func (d *Document) Consume(ref LineRef) {
	d.Blocks[ref.Block].Lines[ref.Line].Consumed = true
}

// Unconsumed returns references to every line not yet claimed, in document order.
func (d *Document) Unconsumed() []LineRef {
	var refs []LineRef
	for b, block := range d.Blocks {
		for l, line := range block.Lines {
			if !line.Consumed {
				refs = append(refs, LineRef{Block: b, Line: l})
			}
		}
	}
	return refs
}

// LineCount returns the total number of lines across all blocks.
func (d *Document) LineCount() int {
	n := 0
	for _, block := range d.Blocks {
		n += len(block.Lines)
	}
	return n
}

package sentence

// JSONDump is the round-trippable JSON form of a parsed sentence (spec.md
// §6: "A JSON dump form round-trips the sentence object (text, terminals
// list, flat tree, score, token list)").
type JSONDump struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Tokens    []string     `json:"tokens"`
	Terminals []string     `json:"terminals,omitempty"`
	FlatTree  string       `json:"flat_tree,omitempty"`
	Score     float64      `json:"score"`
	ErrIndex  *int         `json:"err_index,omitempty"`
	ErrKind   string       `json:"err_kind,omitempty"`
}

// Dump converts s into its JSON-ready form.
func (s *Sentence) Dump() JSONDump {
	d := JSONDump{
		ID:    s.ID.String(),
		Text:  s.Text,
		Score: s.Score,
	}
	for _, tok := range s.Tokens {
		d.Tokens = append(d.Tokens, tok.Text())
	}
	if s.Err != nil {
		d.ErrKind = s.Err.Kind().String()
		idx := s.Err.Index
		d.ErrIndex = &idx
	}
	if s.Tree != nil {
		d.FlatTree = s.Tree.Flat()
		for _, leaf := range s.Tree.Leaves() {
			d.Terminals = append(d.Terminals, leaf.Descriptor)
		}
	}
	return d
}

package advice

import (
	"sort"
)

type Kind string

const (
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
)

// Priority orders blocks, 1 being the most urgent.
func (k Kind) Priority() int {
	switch k {
	case KindError:
		return 1
	case KindWarning:
		return 2
	case KindSuccess:
		return 3
	default:
		return 4
	}
}

type Block struct {
	Type       Kind        `json:"type"`
	Priority   int         `json:"priorite"`
	Title      string      `json:"titre"`
	Message    string      `json:"message"`
	Actions    []string    `json:"actions"`
	Objectives []Objective `json:"objectifs,omitempty"`
}

func newBlock(kind Kind, title, message string, actions ...string) Block {
	if actions == nil {
		actions = []string{}
	}
	return Block{
		Type:     kind,
		Priority: kind.Priority(),
		Title:    title,
		Message:  message,
		Actions:  actions,
	}
}

// sortBlocks keeps insertion order among blocks of equal priority.
func sortBlocks(blocks []Block) []Block {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Priority < blocks[j].Priority
	})
	return blocks
}

package json

import (
	"encoding/json"
	"io"

	"github.com/rnbguy/dbcop/pkg/dbcop"
	"github.com/rnbguy/dbcop/pkg/dbcop/graph"
	"github.com/rnbguy/dbcop/pkg/dbcop/history"
)

// Result is the JSON-serializable outcome of a single Check call, the same
// {file, ok, witness|error} shape the Rust CLI prints with ad hoc
// serde_json::json!({...}) objects.
type Result struct {
	File    string       `json:"file,omitempty"`
	OK      bool         `json:"ok"`
	Witness *WitnessDoc  `json:"witness,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// WitnessDoc is the JSON-serializable form of dbcop.Witness.
type WitnessDoc struct {
	Kind             string                               `json:"kind"`
	CommitOrder      []history.TransactionID              `json:"commitOrder,omitempty"`
	SplitCommitOrder []PhaseVertexDoc                      `json:"splitCommitOrder,omitempty"`
	SaturationEdges  []graph.Edge[history.TransactionID]   `json:"saturationEdges,omitempty"`
}

// PhaseVertexDoc is the JSON-serializable form of linearization.PhaseVertex.
type PhaseVertexDoc struct {
	Txn     history.TransactionID `json:"txn"`
	IsWrite bool                  `json:"isWrite"`
}

func witnessKindName(k dbcop.WitnessKind) string {
	switch k {
	case dbcop.CommitOrderWitness:
		return "commitOrder"
	case dbcop.SplitCommitOrderWitness:
		return "splitCommitOrder"
	case dbcop.SaturationOrderWitness:
		return "saturationOrder"
	default:
		return "unknown"
	}
}

// ResultFor builds a Result from a Check outcome, for the named file.
func ResultFor(file string, w dbcop.Witness, err error) Result {
	if err != nil {
		return Result{File: file, OK: false, Error: err.Error()}
	}

	doc := &WitnessDoc{Kind: witnessKindName(w.Kind), CommitOrder: w.CommitOrder}
	for _, v := range w.SplitCommitOrder {
		doc.SplitCommitOrder = append(doc.SplitCommitOrder, PhaseVertexDoc{Txn: v.Txn, IsWrite: v.IsWrite})
	}
	if w.SaturationOrder != nil {
		doc.SaturationEdges = w.SaturationOrder.ToEdgeList()
	}

	return Result{File: file, OK: true, Witness: doc}
}

// EncodeResult writes r to w as a single compact JSON line, one object per
// invocation.
func EncodeResult(w io.Writer, r Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

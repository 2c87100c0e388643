package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
)

// ResultSet holds a list of keys or values returned by a query. Keys and
// values of the same query are returned as two sets of equal length.
type ResultSet struct {
	Results [][]byte
}

var _ cescrow.Persistent = (*ResultSet)(nil)

// Marshal serializes the set as a protobuf message with a single
// repeated bytes field.
func (r *ResultSet) Marshal() ([]byte, error) {
	raw, err := proto.Marshal(&resultSetMsg{Results: r.Results})
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

// Unmarshal loads the set from its protobuf representation.
func (r *ResultSet) Unmarshal(raw []byte) error {
	var msg resultSetMsg
	if err := proto.Unmarshal(raw, &msg); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	r.Results = msg.Results
	return nil
}

// resultSetMsg is the wire representation of ResultSet.
type resultSetMsg struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *resultSetMsg) Reset()         { *m = resultSetMsg{} }
func (m *resultSetMsg) String() string { return proto.CompactTextString(m) }
func (*resultSetMsg) ProtoMessage()    {}

func init() {
	proto.RegisterType((*resultSetMsg)(nil), "app.ResultSet")
}

// ResultsFromKeys returns a ResultSet of all keys given a set of models
func ResultsFromKeys(models []cescrow.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values given a set of
// models
func ResultsFromValues(models []cescrow.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues and makes
// then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]cescrow.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "mismatched result set size: %d keys, %d values", len(kref), len(vref))
	}
	mods := make([]cescrow.Model, len(kref))
	for i := range mods {
		mods[i] = cescrow.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and if it is not empty,
// unmarshal the first result into o. Returns ErrNotFound for an empty
// set.
func UnmarshalOneResult(bz []byte, o cescrow.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return errors.ErrNotFound.New("empty result set")
	}
	return o.Unmarshal(res.Results[0])
}

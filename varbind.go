// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

// VarBind is a two-element (OID, value) sequence. Grounded on the teacher
// lineage's marshalVBL/unmarshalVBL varbind-list assembly, generalized from
// a flat (Name, Type, Value) struct to a typed Value.
type VarBind struct {
	Name  ObjectIdentifier
	Value Value
}

func (vb VarBind) toSequence() Sequence {
	return Sequence{vb.Name, vb.Value}
}

func (vb VarBind) encode() []byte {
	return EncodeValue(vb.toSequence())
}

func varBindFromSequence(seq Sequence) (VarBind, error) {
	if len(seq) != 2 {
		return VarBind{}, malformed("VarBind: expected 2 elements, got %d", len(seq))
	}
	oid, ok := seq[0].(ObjectIdentifier)
	if !ok {
		return VarBind{}, malformed("VarBind: first element is not an OID")
	}
	return VarBind{Name: oid, Value: seq[1]}, nil
}

// VarBindList is a sequence of VarBinds, order-preserving.
type VarBindList []VarBind

func (vbl VarBindList) encode() []byte {
	seq := make(Sequence, len(vbl))
	for i, vb := range vbl {
		seq[i] = vb.toSequence()
	}
	return EncodeValue(seq)
}

// decodeVarBindList decodes a SEQUENCE-OF-VarBind TLV from the front of
// input, returning the list and whatever bytes follow it.
func decodeVarBindList(input []byte) (VarBindList, []byte, error) {
	v, rest, err := DecodeValue(input)
	if err != nil {
		return nil, nil, err
	}
	seq, ok := v.(Sequence)
	if !ok {
		return nil, nil, malformed("VarBindList: expected SEQUENCE")
	}
	if len(seq) == 0 {
		return nil, rest, nil
	}
	out := make(VarBindList, len(seq))
	for i, elem := range seq {
		child, ok := elem.(Sequence)
		if !ok {
			return nil, nil, malformed("VarBindList: element %d is not a SEQUENCE", i)
		}
		vb, err := varBindFromSequence(child)
		if err != nil {
			return nil, nil, err
		}
		out[i] = vb
	}
	return out, rest, nil
}

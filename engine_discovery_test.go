// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import (
	"context"
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestDiscoverEngineParsesReportResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	rt := NewMockRoundTripper(ctrl)

	reportMsg := MessageV3{
		Header: HeaderData{MsgID: 1, MsgMaxSize: 65507, MsgFlags: 0, SecurityModel: SecurityModelUSM},
		Security: UsmSecurityParameters{
			AuthoritativeEngineID:    testEngineID,
			AuthoritativeEngineBoots: 3,
			AuthoritativeEngineTime:  77,
		},
		ScopedPDU: ScopedPDU{
			PDU: GenericPDU{
				Type:      ReportType,
				RequestID: 1,
				VarBinds:  VarBindList{{Name: oidUnknownEngineIDs, Value: Counter32(1)}},
			},
		},
	}
	reportBytes, err := SealMessageV3(reportMsg, AuthNone, nil, PrivNone, nil)
	require.NoError(t, err)

	rt.EXPECT().SendReceive(gomock.Any(), gomock.Any()).Return(reportBytes, nil)

	idGen := NewIDGenerator(1)
	state, err := DiscoverEngine(context.Background(), rt, idGen)
	require.NoError(t, err)
	require.Equal(t, testEngineID, state.EngineID)
	require.Equal(t, int32(3), state.Boots)
	require.Equal(t, int32(77), state.Time)
}

func TestDiscoverEngineRejectsEmptyEngineID(t *testing.T) {
	ctrl := gomock.NewController(t)
	rt := NewMockRoundTripper(ctrl)

	reportMsg := MessageV3{
		Header:    HeaderData{MsgID: 1, MsgMaxSize: 65507, MsgFlags: 0, SecurityModel: SecurityModelUSM},
		Security:  UsmSecurityParameters{},
		ScopedPDU: ScopedPDU{PDU: GenericPDU{Type: ReportType, RequestID: 1}},
	}
	reportBytes, err := SealMessageV3(reportMsg, AuthNone, nil, PrivNone, nil)
	require.NoError(t, err)

	rt.EXPECT().SendReceive(gomock.Any(), gomock.Any()).Return(reportBytes, nil)

	idGen := NewIDGenerator(1)
	_, err = DiscoverEngine(context.Background(), rt, idGen)
	require.Error(t, err)
}

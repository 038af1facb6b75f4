package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "green", want: StatusGreen},
		{in: "pass", want: StatusGreen},
		{in: "yellow", want: StatusYellow},
		{in: "monitor", want: StatusYellow},
		{in: "red", want: StatusRed},
		{in: "fail", want: StatusRed},
		{in: "na", want: StatusNA},
		{in: "n/a", want: StatusNA},
		{in: "blue", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSubmission)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmission_Validate(t *testing.T) {
	valid := func() Submission {
		return Submission{OrderID: 501, MechanicID: 12, Items: []InspectionResult{
			{LineItemID: 1, Status: StatusRed, Reason: "worn pad"},
		}}
	}

	tests := []struct {
		name   string
		mutate func(s *Submission)
		errSub string
	}{
		{name: "ok", mutate: func(s *Submission) {}},
		{name: "empty items allowed", mutate: func(s *Submission) { s.Items = []InspectionResult{} }},
		{name: "no order", mutate: func(s *Submission) { s.OrderID = 0 }, errSub: "orderId"},
		{name: "no mechanic", mutate: func(s *Submission) { s.MechanicID = 0 }, errSub: "mechanicId"},
		{name: "nil items", mutate: func(s *Submission) { s.Items = nil }, errSub: "items required"},
		{name: "bad line item", mutate: func(s *Submission) { s.Items[0].LineItemID = 0 }, errSub: "lineItemId"},
		{name: "bad status", mutate: func(s *Submission) { s.Items[0].Status = "blue" }, errSub: "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			if tt.errSub == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidSubmission)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestSubmission_WireFormat(t *testing.T) {
	s := Submission{OrderID: 501, MechanicID: 12, Items: []InspectionResult{
		{LineItemID: 1, Status: StatusRed, Reason: "worn pad"},
	}}

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"orderId":501,"mechanicId":12,"items":[{"lineItemId":1,"status":"red","reason":"worn pad"}]}`, string(b))
}

func TestSubmission_CloneIsDeep(t *testing.T) {
	orig := Submission{OrderID: 1, MechanicID: 2, Items: []InspectionResult{{LineItemID: 3, Status: StatusGreen, Photo: "file:///a.jpg"}}}

	c := orig.Clone()
	c.Items[0].Photo = "photos/key"

	assert.Equal(t, "file:///a.jpg", orig.Items[0].Photo)
}

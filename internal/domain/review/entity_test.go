package review

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNew_DeterministicID(t *testing.T) {
	r, err := New("p1", "u1", "Ana", 5, " great ", "o1", time.Now())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if r.ID != "u1__p1" || r.Comment != "great" {
		t.Fatalf("got %+v", r)
	}
}

func TestNew_Validation(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name    string
		rating  int
		orderID string
		comment string
	}{
		{"rating low", 0, "o1", ""},
		{"rating high", 6, "o1", ""},
		{"no order", 3, "", ""},
		{"comment too long", 3, "o1", strings.Repeat("a", MaxCommentLen+1)},
	}
	for _, tc := range cases {
		if _, err := New("p1", "u1", "Ana", tc.rating, tc.comment, tc.orderID, now); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: got %v", tc.name, err)
		}
	}
}

package catalog

import (
	"errors"
	"reflect"
	"testing"

	pkgerrors "github.com/stylerack/stylerack/pkg/errors"
)

func TestParseFolderName(t *testing.T) {
	t.Run("FullProduct", func(t *testing.T) {
		p, err := ParseFolderName("128-休闲_运动-新品-夏-通勤_日常-连衣裙")
		if err != nil {
			t.Fatalf("Failed to parse folder name: %v", err)
		}

		if p.Price != 128 {
			t.Errorf("Expected price 128, got %d", p.Price)
		}
		if p.Name != "连衣裙" {
			t.Errorf("Expected name '连衣裙', got %q", p.Name)
		}
		if !reflect.DeepEqual(p.Styles, []string{"休闲", "运动"}) {
			t.Errorf("Expected styles [休闲 运动], got %v", p.Styles)
		}
		if !reflect.DeepEqual(p.Tags, []string{"新品"}) {
			t.Errorf("Expected tags [新品], got %v", p.Tags)
		}
		if !reflect.DeepEqual(p.Scenes, []string{"通勤", "日常"}) {
			t.Errorf("Expected scenes [通勤 日常], got %v", p.Scenes)
		}
	})

	t.Run("NameContainingSeparators", func(t *testing.T) {
		// Everything past the fifth '-' belongs to the name.
		p, err := ParseFolderName("99-a-b-c-d-t-shirt-v2")
		if err != nil {
			t.Fatalf("Failed to parse folder name: %v", err)
		}
		if p.Name != "t-shirt-v2" {
			t.Errorf("Expected name 't-shirt-v2', got %q", p.Name)
		}
	})

	t.Run("EmptyFacetSegmentsDropped", func(t *testing.T) {
		p, err := ParseFolderName("50-_a__b_-x-y-z-thing")
		if err != nil {
			t.Fatalf("Failed to parse folder name: %v", err)
		}
		if !reflect.DeepEqual(p.Styles, []string{"a", "b"}) {
			t.Errorf("Expected styles [a b], got %v", p.Styles)
		}
	})

	t.Run("NotProducts", func(t *testing.T) {
		cases := []string{
			"misc",                      // no separators at all
			"128-a-b-c",                 // too few fields
			"abc-style-tag-season-scene-name", // non-numeric price
			"-5-a-b-c-d-name",           // negative price reads as empty first field
		}
		for _, folder := range cases {
			if _, err := ParseFolderName(folder); !errors.Is(err, pkgerrors.ErrNotProduct) {
				t.Errorf("ParseFolderName(%q) = %v, want ErrNotProduct", folder, err)
			}
		}
	})
}

func TestEncodeFolderName(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		encoded, err := EncodeFolderName("连衣裙", 128,
			[]string{"休闲", "运动"}, []string{"新品"}, []string{"夏"}, []string{"通勤"})
		if err != nil {
			t.Fatalf("Failed to encode: %v", err)
		}
		if encoded != "128-休闲_运动-新品-夏-通勤-连衣裙" {
			t.Errorf("Unexpected encoding: %q", encoded)
		}

		p, err := ParseFolderName(encoded)
		if err != nil {
			t.Fatalf("Round trip failed to parse: %v", err)
		}
		if p.Name != "连衣裙" || p.Price != 128 {
			t.Errorf("Round trip lost data: %+v", p)
		}
		if !reflect.DeepEqual(p.Styles, []string{"休闲", "运动"}) {
			t.Errorf("Round trip lost styles: %v", p.Styles)
		}
	})

	t.Run("Rejections", func(t *testing.T) {
		one := []string{"v"}
		cases := []struct {
			name    string
			encode  func() (string, error)
		}{
			{"blank name", func() (string, error) {
				return EncodeFolderName("  ", 10, one, one, one, one)
			}},
			{"negative price", func() (string, error) {
				return EncodeFolderName("x", -1, one, one, one, one)
			}},
			{"empty category", func() (string, error) {
				return EncodeFolderName("x", 10, nil, one, one, one)
			}},
			{"value with dash", func() (string, error) {
				return EncodeFolderName("x", 10, []string{"a-b"}, one, one, one)
			}},
			{"value with underscore", func() (string, error) {
				return EncodeFolderName("x", 10, one, []string{"a_b"}, one, one)
			}},
			{"blank value", func() (string, error) {
				return EncodeFolderName("x", 10, one, one, []string{" "}, one)
			}},
		}
		for _, tc := range cases {
			if _, err := tc.encode(); !pkgerrors.IsValidationError(err) {
				t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
			}
		}
	})
}

func TestDeriveID(t *testing.T) {
	id := DeriveID("服装/128-休闲-新品-夏-通勤-连衣裙")
	want := "服装_128__休闲__新品__夏__通勤__连衣裙"
	if id != want {
		t.Errorf("DeriveID = %q, want %q", id, want)
	}

	// Dots normalize before dashes expand, so they never produce '__'.
	if got := DeriveID("a.b/c-d"); got != "a_b_c__d" {
		t.Errorf("DeriveID = %q, want a_b_c__d", got)
	}
}

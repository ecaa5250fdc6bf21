package slug

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]*$`)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Laptop Dell XPS 13", "laptop-dell-xps-13"},
		{"Máy tính xách tay Đồ họa", "may-tinh-xach-tay-do-hoa"},
		{"Lenovo ThinkPad X1 Carbon Gen 11 (2023)", "lenovo-thinkpad-x1-carbon-gen-11-2023"},
		{"  --Hướng dẫn cài đặt Windows 11--  ", "huong-dan-cai-dat-windows-11"},
		{"Ổ cứng SSD 512GB", "o-cung-ssd-512gb"},
		{"ASUS ROG Strix G16 — RTX 4060", "asus-rog-strix-g16-rtx-4060"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := Make(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Regexp(t, slugPattern, got)
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"Laptop Gaming Acer Nitro 5",
		"Bàn phím cơ Đẹp",
		"macbook-air-m2",
		"Phụ kiện & Linh kiện / Chuột",
	}
	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once), "input %q", in)
	}
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"dell-xps": true, "dell-xps-2": true}

	got, err := Unique("dell-xps", func(s string) (bool, error) { return taken[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "dell-xps-3", got)

	got, err = Unique("hp-envy", func(s string) (bool, error) { return taken[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "hp-envy", got)

	_, err = Unique("x", func(string) (bool, error) { return false, fmt.Errorf("db down") })
	assert.Error(t, err)
}

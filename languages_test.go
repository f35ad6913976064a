package translator

import "testing"

func TestNormalizeLang(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en_US", "en"},
		{"en-US", "en"},
		{"zh_CN", "zh"},
		{" ja ", "ja"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLang(tt.in); got != tt.want {
			t.Errorf("NormalizeLang(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMiniMaxCode(t *testing.T) {
	if got := MiniMaxCode("en_US"); got != "EN" {
		t.Errorf("MiniMaxCode(en_US) = %q, want EN", got)
	}
	if got := MiniMaxCode("zh"); got != "ZH" {
		t.Errorf("MiniMaxCode(zh) = %q, want ZH", got)
	}
}

func TestShortCode(t *testing.T) {
	if got := ShortCode("ZH_cn"); got != "zh" {
		t.Errorf("ShortCode(ZH_cn) = %q, want zh", got)
	}
}

func TestNormalizePair(t *testing.T) {
	pair := NormalizePair("EN-us", "zh_CN")
	if pair.Source != "en" || pair.Target != "zh" {
		t.Errorf("NormalizePair = %+v, want en/zh", pair)
	}
}

func TestLanguageName(t *testing.T) {
	if got := LanguageName("zh_CN"); got != "Chinese" {
		t.Errorf("LanguageName(zh_CN) = %q, want Chinese", got)
	}
	// Unknown codes fall back to the normalized code.
	if got := LanguageName("xx_YY"); got != "xx" {
		t.Errorf("LanguageName(xx_YY) = %q, want xx", got)
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("en") {
		t.Error("en should be supported")
	}
	if IsSupported("xx") {
		t.Error("xx should not be supported")
	}
}

package cpp

import "maps"

// LP64のx86-64 Linuxを前提とした事前定義マクロ
var predefined = map[string]string{
	"__STDC__":         "1",
	"__STDC_VERSION__": "201112L",
	"__STDC_HOSTED__":  "1",
	"__LP64__":         "1",
	"__x86_64__":       "1",
	"__CHAR_BIT__":     "8",

	// limits.h
	"CHAR_BIT":   "8",
	"SCHAR_MIN":  "(-128)",
	"SCHAR_MAX":  "127",
	"UCHAR_MAX":  "255",
	"CHAR_MIN":   "SCHAR_MIN",
	"CHAR_MAX":   "SCHAR_MAX",
	"SHRT_MIN":   "(-32768)",
	"SHRT_MAX":   "32767",
	"USHRT_MAX":  "65535",
	"INT_MIN":    "(-INT_MAX - 1)",
	"INT_MAX":    "2147483647",
	"UINT_MAX":   "4294967295U",
	"LONG_MIN":   "(-LONG_MAX - 1L)",
	"LONG_MAX":   "9223372036854775807L",
	"ULONG_MAX":  "18446744073709551615UL",
	"LLONG_MIN":  "(-LLONG_MAX - 1LL)",
	"LLONG_MAX":  "9223372036854775807LL",
	"ULLONG_MAX": "18446744073709551615ULL",

	// stdbool.h
	"bool":  "_Bool",
	"true":  "1",
	"false": "0",
}

func predefinedMacros() map[string]string {
	return maps.Clone(predefined)
}

// MacroNames は事前定義マクロの名前を返す。補完候補に使う
func MacroNames() []string {
	names := make([]string, 0, len(predefined)+1)
	for name := range predefined {
		names = append(names, name)
	}
	return append(names, "__LINE__")
}

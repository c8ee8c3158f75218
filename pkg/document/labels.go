package document

import (
	"strconv"
	"strings"
)

// LabelStyle 页码标签的编号样式（PDF /S）
type LabelStyle string

const (
	StyleNone         LabelStyle = ""
	StyleDecimal      LabelStyle = "D"
	StyleUpperRoman   LabelStyle = "R"
	StyleLowerRoman   LabelStyle = "r"
	StyleUpperLetters LabelStyle = "A"
	StyleLowerLetters LabelStyle = "a"
)

// LabelRange 从 StartPage 开始生效的标签规则
type LabelRange struct {
	StartPage int
	Style     LabelStyle
	Prefix    string
	Start     int
}

// Format 返回该规则下第 page 页的标签
func (r LabelRange) Format(page int) string {
	start := r.Start
	if start < 1 {
		start = 1
	}
	n := start + page - r.StartPage
	switch r.Style {
	case StyleDecimal:
		return r.Prefix + strconv.Itoa(n)
	case StyleUpperRoman:
		return r.Prefix + roman(n)
	case StyleLowerRoman:
		return r.Prefix + strings.ToLower(roman(n))
	case StyleUpperLetters:
		return r.Prefix + letters(n)
	case StyleLowerLetters:
		return r.Prefix + strings.ToLower(letters(n))
	}
	return r.Prefix
}

// Labels 按 ranges 生成 count 页的标签；ranges 需按 StartPage 升序。
// 首个规则之前的页面使用十进制页码。
func Labels(ranges []LabelRange, count int) []string {
	labels := make([]string, count)
	j := -1
	for i := 0; i < count; i++ {
		for j+1 < len(ranges) && ranges[j+1].StartPage <= i {
			j++
		}
		if j < 0 {
			labels[i] = strconv.Itoa(i + 1)
			continue
		}
		labels[i] = ranges[j].Format(i)
	}
	return labels
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// letters A..Z, AA..ZZ, AAA..
func letters(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	letter := byte('A' + (n-1)%26)
	return strings.Repeat(string(letter), (n-1)/26+1)
}

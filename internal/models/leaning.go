package models

import (
	"fmt"
	"strings"
)

// Leaning 政治倾向的七级刻度，从极左到极右
type Leaning string

const (
	LeaningFarLeft     Leaning = "FL"
	LeaningLeft        Leaning = "L"
	LeaningSlightLeft  Leaning = "SL"
	LeaningModerate    Leaning = "M"
	LeaningSlightRight Leaning = "SR"
	LeaningRight       Leaning = "R"
	LeaningFarRight    Leaning = "FR"
)

// AllLeanings 固定顺序的完整刻度，所有分布输出都按它补齐
var AllLeanings = []Leaning{
	LeaningFarLeft,
	LeaningLeft,
	LeaningSlightLeft,
	LeaningModerate,
	LeaningSlightRight,
	LeaningRight,
	LeaningFarRight,
}

// ParseLeaning 解析倾向代码（不区分大小写）
func ParseLeaning(s string) (Leaning, error) {
	l := Leaning(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("invalid leaning code %q", s)
	}
	return l, nil
}

func (l Leaning) Valid() bool {
	switch l {
	case LeaningFarLeft, LeaningLeft, LeaningSlightLeft, LeaningModerate,
		LeaningSlightRight, LeaningRight, LeaningFarRight:
		return true
	}
	return false
}

func (l Leaning) IsLeft() bool {
	return l == LeaningFarLeft || l == LeaningLeft || l == LeaningSlightLeft
}

func (l Leaning) IsRight() bool {
	return l == LeaningSlightRight || l == LeaningRight || l == LeaningFarRight
}

func (l Leaning) IsModerate() bool {
	return l == LeaningModerate
}

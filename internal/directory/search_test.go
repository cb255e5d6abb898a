package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krxcli/pkg/contracts/domain"
)

var searchRoster = []domain.CompanyRecord{
	{Name: "우리금융지주", Symbol: "316140"},
	{Name: "삼성전자", Symbol: "005930"},
	{Name: "삼성전자우", Symbol: "005935"},
	{Name: "호텔신라", Symbol: "008770"},
	{Name: "신세계", Symbol: "004170"},
}

func TestSearch_PrefixBeforeSubstring(t *testing.T) {
	// 신세계 starts with the keyword, 호텔신라 merely contains it.
	got := Search(searchRoster, "신", 10)
	require.Len(t, got, 2)
	assert.Equal(t, "신세계", got[0].Name)
	assert.Equal(t, "호텔신라", got[1].Name)
}

func TestSearch_SymbolPrefix(t *testing.T) {
	got := Search(searchRoster, "0059", 10)
	require.Len(t, got, 2)
	assert.Equal(t, "005930", got[0].Symbol)
	assert.Equal(t, "005935", got[1].Symbol)
}

func TestSearch_EmptyKeywordReturnsHead(t *testing.T) {
	got := Search(searchRoster, "", 3)
	assert.Len(t, got, 3)

	got = Search(searchRoster, "  ", 100)
	assert.Len(t, got, len(searchRoster))
}

func TestSearch_LimitApplied(t *testing.T) {
	got := Search(searchRoster, "삼성", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "삼성전자", got[0].Name)
}

func TestSearch_DefaultLimit(t *testing.T) {
	got := Search(searchRoster, "삼성", 0)
	assert.Len(t, got, 2)
}

func TestSearch_NoMatches(t *testing.T) {
	got := Search(searchRoster, "현대", 10)
	assert.Empty(t, got)
}

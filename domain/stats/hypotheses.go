package stats

import (
	"fmt"

	"autostat/domain/core"
)

// HypothesisText returns the H0/H1 pair for a test kind. For group tests
// col1 is the numeric column and col2 the grouping column; for chi-square
// and correlation, col1 and col2 are the two tested columns.
func HypothesisText(kind TestKind, col1, col2 core.ColumnName) (h0, h1 string) {
	switch kind {
	case TestTTest:
		return fmt.Sprintf("The mean of %s is equal across the two groups in %s.", col1.Quoted(), col2.Quoted()),
			fmt.Sprintf("The mean of %s is different across the two groups in %s.", col1.Quoted(), col2.Quoted())
	case TestANOVA:
		return fmt.Sprintf("The mean of %s is equal across all groups in %s.", col1.Quoted(), col2.Quoted()),
			fmt.Sprintf("At least one group mean of %s in %s is different.", col1.Quoted(), col2.Quoted())
	case TestMannWhitney:
		return fmt.Sprintf("The distribution of %s is the same across the two groups in %s.", col1.Quoted(), col2.Quoted()),
			fmt.Sprintf("The distribution of %s differs between the two groups in %s.", col1.Quoted(), col2.Quoted())
	case TestKruskal:
		return fmt.Sprintf("The distribution of %s is the same across all groups in %s.", col1.Quoted(), col2.Quoted()),
			fmt.Sprintf("At least one group distribution of %s in %s is different.", col1.Quoted(), col2.Quoted())
	case TestChiSquare:
		return fmt.Sprintf("%s and %s are independent.", col1.Quoted(), col2.Quoted()),
			fmt.Sprintf("%s and %s are not independent.", col1.Quoted(), col2.Quoted())
	case TestPearson, TestSpearman:
		return fmt.Sprintf("There is no correlation between %s and %s.", col1.Quoted(), col2.Quoted()),
			fmt.Sprintf("There is a correlation between %s and %s.", col1.Quoted(), col2.Quoted())
	}
	return "", ""
}

package dataset

import (
	domainDataset "dashkit/domain/dataset"
)

// Classify partitions the table's columns by their load-time kind. Boolean
// columns are categorical. Column order is preserved.
func Classify(t *domainDataset.Table) domainDataset.Classification {
	c := domainDataset.Classification{
		Numeric:     []string{},
		Categorical: []string{},
	}
	if t == nil {
		return c
	}
	for _, col := range t.Columns {
		if col.Kind == domainDataset.KindNumeric {
			c.Numeric = append(c.Numeric, col.Name)
		} else {
			c.Categorical = append(c.Categorical, col.Name)
		}
	}
	return c
}

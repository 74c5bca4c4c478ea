// AssetFilter narrows catalog asset queries.
package dto

import "contentpipeline/internal/model"

type AssetFilter struct {
	RunID   string
	Project string
	Status  model.AssetStatus
	Limit   int
	Offset  int
}

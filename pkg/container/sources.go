package container

import (
	ctmodel "review-service/internal/domains/contenttype/model"
	ctrepo "review-service/internal/domains/contenttype/repository"
	infradb "review-service/internal/infrastructure/database"
)

// sourceBinding declares where the instances of one registered content type
// live in the host schema. The name must match the content_types row.
type sourceBinding struct {
	Name          string
	Table         string
	IDColumn      string
	DisplayColumn string
}

// hostBindings is the integration seam with the host application. Content
// types listed in the registry but not bound here are skipped during
// candidate enumeration.
var hostBindings = []sourceBinding{
	{Name: "article", Table: "articles", IDColumn: "id", DisplayColumn: "title"},
	{Name: "product", Table: "products", IDColumn: "id", DisplayColumn: "name"},
	{Name: "venue", Table: "venues", IDColumn: "id", DisplayColumn: "name"},
}

func hostObjectSources(db *infradb.PostgresDB) map[string]ctmodel.ObjectSource {
	sources := make(map[string]ctmodel.ObjectSource, len(hostBindings))
	for _, b := range hostBindings {
		sources[b.Name] = ctrepo.NewSQLObjectSource(db.Pool, b.Table, b.IDColumn, b.DisplayColumn)
	}
	return sources
}

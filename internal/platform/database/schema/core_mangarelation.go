package schema

// CoreMangaRelationTable represents the 'core.mangarelation' table
type CoreMangaRelationTable struct {
	Table            string
	MangaID          string
	RelatedID        string
	RelationshipType string
}

// CoreMangaRelation is the schema definition for core.mangarelation
var CoreMangaRelation = CoreMangaRelationTable{
	Table:            "core.mangarelation",
	MangaID:          "mangaid",
	RelatedID:        "relatedid",
	RelationshipType: "relationshiptype",
}

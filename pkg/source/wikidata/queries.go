package wikidata

import (
	"fmt"
	"strings"
)

// Root entities for the narrative categories this service ingests.
const (
	LiteraryArchetypeQID = "Q212806"
	SciFiThemeQID        = "Q13055555"
	GameMechanicQID      = "Q46996652"
)

// ATUIndexProperty is the Aarne-Thompson-Uther tale type index (P2540),
// used both as the folklore selector and as the external reference carried
// on folklore nodes.
const ATUIndexProperty = "P2540"

func makeRootQuery(rootQID string, limit int) string {
	limitClause := ""
	if limit > 0 {
		limitClause = fmt.Sprintf("LIMIT %d", limit)
	}

	return strings.TrimSpace(fmt.Sprintf(`
SELECT ?entity ?entityLabel ?entityDescription ?atu ?wikipediaTitle
WHERE {
  VALUES ?root { wd:%s }

  ?entity wdt:P31|wdt:P279|wdt:P136|wdt:P921 ?root .

  OPTIONAL { ?entity wdt:%s ?atu . }

  OPTIONAL {
    ?sitelink schema:about ?entity ;
              schema:isPartOf <https://en.wikipedia.org/> ;
              schema:name ?wikipediaTitle .
  }

  SERVICE wikibase:label { bd:serviceParam wikibase:language "en" . }
}
%s`, rootQID, ATUIndexProperty, limitClause))
}

func makeFolkloreQuery(limit int) string {
	limitClause := ""
	if limit > 0 {
		limitClause = fmt.Sprintf("LIMIT %d", limit)
	}

	return strings.TrimSpace(fmt.Sprintf(`
SELECT ?entity ?entityLabel ?entityDescription ?atu ?wikipediaTitle
WHERE {
  ?entity wdt:%s ?atu .

  OPTIONAL {
    ?sitelink schema:about ?entity ;
              schema:isPartOf <https://en.wikipedia.org/> ;
              schema:name ?wikipediaTitle .
  }

  SERVICE wikibase:label { bd:serviceParam wikibase:language "en" . }
}
%s`, ATUIndexProperty, limitClause))
}

func makeRelationQuery(property string, ids []string) string {
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, "wd:"+id)
	}

	return strings.TrimSpace(fmt.Sprintf(`
SELECT ?subject ?object WHERE {
  VALUES ?subject { %s }
  ?subject wdt:%s ?object .
}`, strings.Join(values, " "), property))
}

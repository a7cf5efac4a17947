package models

import "strings"

// Alert — уведомление о новой негативной статье с метками алертов.
type Alert struct {
	Labels  []string
	Article Article
}

// Message собирает строку уведомления "<labels>: <title> (<source>)".
func (a Alert) Message() string {
	return strings.Join(a.Labels, "; ") + ": " + a.Article.Title + " (" + a.Article.Source + ")"
}

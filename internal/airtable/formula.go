package airtable

import "strings"

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Quote возвращает строковый литерал формулы в одинарных кавычках.
func Quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}

// FieldEquals строит формулу точного совпадения поля со значением: {field} = 'value'.
func FieldEquals(field, value string) string {
	return "{" + field + "} = " + Quote(value)
}

// Package additem implements the Add Item to Catalog use case.
//
// This feature creates a new catalogued item with its full copy count available.
// Unlike the circulation commands there is no Decide step: creating an item has no
// prior state to decide against, so the handler inserts the record directly and the
// store's uniqueness guarantee rejects duplicates.
package additem

// booknotes keeps a personal library: books, one review per book, notes,
// and reading views. Catalog changes need an editor session.
//
// @title        booknotes API
// @version      1.0
// @description  Personal library tracker: books, reviews, notes and reading views.
// @BasePath     /
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

func main() {
	Execute()
}

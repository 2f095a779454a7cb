package app

import "github.com/phenrril/vitrina/internal/domain"

const (
	cdn    = "https://cdn.poehali.dev/projects/4e47b175-b72e-4e05-b7a0-2887ba3dfc45/files/"
	assets = "/public/img/"
)

func seedStorefronts() []domain.Storefront {
	return []domain.Storefront{
		{
			Slug:     domain.StorefrontSneakers,
			Title:    "SneakerHub",
			Tagline:  "Original sneakers from the brands you love",
			Currency: "₽",
			Sizes:    []string{"39", "40", "41", "42", "43", "44", "45"},
			Colors:   []string{"Black", "White", "Grey", "Blue", "Orange"},
			Brands:   []string{"Nike", "Adidas", "New Balance", "Asics"},
			Sections: []string{"Home", "Catalog", "New", "Sale", "Delivery", "Contacts"},
		},
		{
			Slug:     domain.StorefrontApparel,
			Title:    "StreetWear",
			Tagline:  "Everyday apparel for the city",
			Currency: "₽",
			Sizes:    []string{"XS", "S", "M", "L", "XL", "XXL"},
			Colors:   []string{"Black", "White", "Grey", "Green", "Beige"},
			Brands:   []string{"Nike", "Adidas", "The North Face", "Carhartt"},
			Sections: []string{"Home", "Catalog", "New", "Sale", "Delivery", "Contacts"},
		},
	}
}

func seedProducts() []domain.Product {
	sneakers := []domain.Product{
		{ID: 1, Name: "Nike Air Max 270", Price: 14990, Image: cdn + "b3edd821-6c4c-4f67-b5a6-40a3dbb819aa.jpg", Category: "Lifestyle", Sizes: []string{"40", "41", "42", "43", "44", "45"}, Color: "Black", Brand: "Nike", IsNew: true},
		{ID: 2, Name: "Adidas Ultraboost 22", Price: 16990, Image: cdn + "b7a0f941-9734-4ce2-8991-6d4801093591.jpg", Category: "Running", Sizes: []string{"40", "41", "42", "43", "44"}, Color: "Black", Brand: "Adidas", Discount: domain.IntPtr(15)},
		{ID: 3, Name: "New Balance 574", Price: 8990, Image: cdn + "f63f9865-c638-4085-9ad2-5ffe96ba9734.jpg", Category: "Lifestyle", Sizes: []string{"39", "40", "41", "42", "43"}, Color: "Grey", Brand: "New Balance", IsNew: true},
		{ID: 4, Name: "Asics Gel-Kayano 29", Price: 13990, Image: cdn + "b3edd821-6c4c-4f67-b5a6-40a3dbb819aa.jpg", Category: "Running", Sizes: []string{"40", "41", "42", "43", "44"}, Color: "Blue", Brand: "Asics", Discount: domain.IntPtr(20)},
		{ID: 5, Name: "Nike React Infinity Run", Price: 12990, Image: cdn + "b3edd821-6c4c-4f67-b5a6-40a3dbb819aa.jpg", Category: "Running", Sizes: []string{"40", "41", "42", "43", "44", "45"}, Color: "White", Brand: "Nike", IsNew: true},
		{ID: 6, Name: "Adidas Originals Superstar", Price: 9990, Image: cdn + "b7a0f941-9734-4ce2-8991-6d4801093591.jpg", Category: "Lifestyle", Sizes: []string{"39", "40", "41", "42", "43", "44"}, Color: "White", Brand: "Adidas", Discount: domain.IntPtr(10)},
		{ID: 7, Name: "New Balance Fresh Foam", Price: 11990, Image: cdn + "f63f9865-c638-4085-9ad2-5ffe96ba9734.jpg", Category: "Running", Sizes: []string{"40", "41", "42", "43", "44"}, Color: "Grey", Brand: "New Balance"},
		{ID: 8, Name: "Asics GT-2000 10", Price: 10990, Image: cdn + "b3edd821-6c4c-4f67-b5a6-40a3dbb819aa.jpg", Category: "Running", Sizes: []string{"40", "41", "42", "43", "44", "45"}, Color: "Orange", Brand: "Asics", IsNew: true},
	}
	apparel := []domain.Product{
		{ID: 1, Name: "Nike Tech Fleece Hoodie", Price: 9990, Image: assets + "apparel-hoodie.svg", Category: "Hoodies", Sizes: []string{"S", "M", "L", "XL"}, Color: "Grey", Brand: "Nike", IsNew: true},
		{ID: 2, Name: "Adidas Adicolor Tee", Price: 2990, Image: assets + "apparel-tee.svg", Category: "T-Shirts", Sizes: []string{"XS", "S", "M", "L", "XL"}, Color: "White", Brand: "Adidas", Discount: domain.IntPtr(25)},
		{ID: 3, Name: "The North Face Nuptse Jacket", Price: 27990, Image: assets + "apparel-jacket.svg", Category: "Outerwear", Sizes: []string{"M", "L", "XL", "XXL"}, Color: "Black", Brand: "The North Face"},
		{ID: 4, Name: "Carhartt WIP Chase Sweatshirt", Price: 8490, Image: assets + "apparel-sweatshirt.svg", Category: "Sweatshirts", Sizes: []string{"S", "M", "L"}, Color: "Green", Brand: "Carhartt", Discount: domain.IntPtr(10)},
		{ID: 5, Name: "Nike Sportswear Club Joggers", Price: 5490, Image: assets + "apparel-joggers.svg", Category: "Pants", Sizes: []string{"XS", "S", "M", "L", "XL", "XXL"}, Color: "Black", Brand: "Nike", IsNew: true},
		{ID: 6, Name: "Adidas Essentials Windbreaker", Price: 6990, Image: assets + "apparel-windbreaker.svg", Category: "Outerwear", Sizes: []string{"M", "L", "XL"}, Color: "Beige", Brand: "Adidas", Discount: domain.IntPtr(20)},
	}
	out := make([]domain.Product, 0, len(sneakers)+len(apparel))
	for i, p := range sneakers {
		p.Storefront = domain.StorefrontSneakers
		p.Position = i
		out = append(out, p)
	}
	for i, p := range apparel {
		p.Storefront = domain.StorefrontApparel
		p.Position = i
		out = append(out, p)
	}
	return out
}

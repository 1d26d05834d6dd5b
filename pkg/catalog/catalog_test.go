package catalog

import (
	"testing"

	"github.com/stylerack/stylerack/pkg/errors"
)

func galleryListing() Listing {
	return Listing{
		Directories: []string{
			"服装/128-休闲-新品-夏-通勤-连衣裙",
			"服装/banners",  // not a product, silently skipped
			"服装/299-正式-经典-冬-通勤-大衣",
			"服装/88-运动-新品-夏-日常-短袖", // decodes but has no images
		},
		Files: []string{
			"服装/128-休闲-新品-夏-通勤-连衣裙/img10.jpg",
			"服装/128-休闲-新品-夏-通勤-连衣裙/img2.jpg",
			"服装/299-正式-经典-冬-通勤-大衣/front.jpg",
			"服装/banners/hero.png", // orphan: directory is not a product
			"readme.txt",            // orphan: no directory at all
		},
	}
}

func TestCatalogBuild(t *testing.T) {
	cat := New()
	stats := cat.Build(galleryListing())

	if stats.Products != 2 {
		t.Errorf("Expected 2 products, got %d", stats.Products)
	}
	if stats.SkippedDirs != 1 {
		t.Errorf("Expected 1 skipped dir, got %d", stats.SkippedDirs)
	}
	if stats.OrphanFiles != 2 {
		t.Errorf("Expected 2 orphan files, got %d", stats.OrphanFiles)
	}
	if stats.DroppedEmpty != 1 {
		t.Errorf("Expected 1 empty product dropped, got %d", stats.DroppedEmpty)
	}

	products := cat.Products()
	if len(products) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(products))
	}
	// Listing order is preserved.
	if products[0].Name != "连衣裙" || products[1].Name != "大衣" {
		t.Errorf("Unexpected order: %v", names(products))
	}
	// Images sorted with numeric awareness.
	dress := products[0]
	if dress.Images[0].FileName != "img2.jpg" || dress.Images[1].FileName != "img10.jpg" {
		t.Errorf("Images not in numeric order: %+v", dress.Images)
	}
}

func TestCatalogLookup(t *testing.T) {
	cat := New()
	cat.Build(galleryListing())

	p, err := cat.Find("服装/128-休闲-新品-夏-通勤-连衣裙")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	byID, err := cat.FindByID(p.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byID != p {
		t.Error("FindByID returned a different product")
	}

	if _, err := cat.Find("服装/nope"); !errors.IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestCatalogRebuildReplaces(t *testing.T) {
	cat := New()
	cat.Build(galleryListing())

	cat.Build(Listing{
		Directories: []string{"服装/10-a-b-c-d-袜子"},
		Files:       []string{"服装/10-a-b-c-d-袜子/1.jpg"},
	})

	if cat.Len() != 1 {
		t.Errorf("Expected 1 product after rebuild, got %d", cat.Len())
	}
	if _, err := cat.Find("服装/128-休闲-新品-夏-通勤-连衣裙"); err == nil {
		t.Error("Old product should be gone after rebuild")
	}
}

func TestRemoveImage(t *testing.T) {
	t.Run("KeepsProductWithImagesLeft", func(t *testing.T) {
		cat := New()
		cat.Build(galleryListing())

		result, err := cat.RemoveImage("服装/128-休闲-新品-夏-通勤-连衣裙/img2.jpg")
		if err != nil {
			t.Fatalf("RemoveImage failed: %v", err)
		}
		if result.ProductRemoved {
			t.Error("Product should survive with one image left")
		}
		if len(result.Product.Images) != 1 {
			t.Errorf("Expected 1 image left, got %d", len(result.Product.Images))
		}
	})

	t.Run("CascadesWhenLastImageGoes", func(t *testing.T) {
		cat := New()
		cat.Build(galleryListing())

		result, err := cat.RemoveImage("服装/299-正式-经典-冬-通勤-大衣/front.jpg")
		if err != nil {
			t.Fatalf("RemoveImage failed: %v", err)
		}
		if !result.ProductRemoved {
			t.Fatal("Removing the last image should remove the product")
		}
		if cat.Len() != 1 {
			t.Errorf("Expected 1 product left, got %d", cat.Len())
		}
		if _, err := cat.FindByID(result.Product.ID); !errors.IsNotFound(err) {
			t.Error("Removed product should not resolve by ID")
		}
	})

	t.Run("UnknownImage", func(t *testing.T) {
		cat := New()
		cat.Build(galleryListing())

		if _, err := cat.RemoveImage("服装/128-休闲-新品-夏-通勤-连衣裙/nope.jpg"); !errors.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})
}

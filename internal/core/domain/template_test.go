package domain

import "testing"

func TestTemplateCatalog(t *testing.T) {
	catalog := Templates()
	if len(catalog) == 0 {
		t.Fatal("template catalog is empty")
	}

	seen := make(map[string]bool)
	for _, tmpl := range catalog {
		if tmpl.ID == "" || tmpl.Name == "" {
			t.Errorf("template %+v missing identity", tmpl)
		}
		if seen[tmpl.ID] {
			t.Errorf("duplicate template ID %s", tmpl.ID)
		}
		seen[tmpl.ID] = true

		if len(tmpl.Points) < 2 {
			t.Errorf("template %s has %d points", tmpl.ID, len(tmpl.Points))
		}
		for _, p := range tmpl.Points {
			if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
				t.Errorf("template %s point %+v outside unit box", tmpl.ID, p)
			}
		}
	}
}

func TestTemplateByID(t *testing.T) {
	tmpl, ok := TemplateByID("circle")
	if !ok || tmpl.Name != "Circle" {
		t.Fatalf("circle lookup = %+v, %t", tmpl, ok)
	}

	if _, ok := TemplateByID("hexagon"); ok {
		t.Fatal("unknown template found")
	}
}

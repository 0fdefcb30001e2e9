package normalize_test

import (
	"testing"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestText(t *testing.T) {
	Convey("Given free-text organization names", t, func() {
		cases := map[string]string{
			"":                                 "",
			"   ":                              "",
			"UL":                               "ul",
			"Univ. de Lima":                    "univ de lima",
			"Pontificia Universidad Católica":  "pontificia universidad catolica",
			"  Universidad   San-Martín  ":     "universidad san martin",
			"UNIVERSIDAD TECNOLÓGICA DEL PERÚ": "universidad tecnologica del peru",
			"Ñuñoa (sede 2)":                   "nunoa sede 2",
			"U.P.C.":                           "u p c",
			"\tESAN\n":                         "esan",
		}

		for in, want := range cases {
			So(normalize.Text(in), ShouldEqual, want)
		}
	})

	Convey("Given already normalized text", t, func() {
		s := "universidad de lima"

		Convey("Then normalizing again is a no-op", func() {
			So(normalize.Text(normalize.Text(s)), ShouldEqual, s)
		})
	})
}

func TestContains(t *testing.T) {
	Convey("Given containment checks", t, func() {
		So(normalize.Contains("Universidad Tecnológica del Perú", "tecnologica"), ShouldBeTrue)
		So(normalize.Contains("Ingeniería de Software", "INGENIERIA"), ShouldBeTrue)
		So(normalize.Contains("Marketing", "finanzas"), ShouldBeFalse)

		Convey("Then an empty needle never matches", func() {
			So(normalize.Contains("anything", ""), ShouldBeFalse)
			So(normalize.Contains("anything", " .. "), ShouldBeFalse)
		})
	})
}

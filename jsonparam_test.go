package reqval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reqval"
)

func warehouseSchema() *reqval.JsonParam {
	return reqval.JsonObject(
		reqval.Key("street", reqval.JsonLeaf(reqval.Enum("Jakuba Kolasa"))),
		reqval.Key("meta", reqval.JsonObject(
			reqval.Key("description", reqval.JsonObject(
				reqval.Key("color", reqval.JsonLeaf(reqval.Enum("green", "yellow", "blue"))),
			)),
			reqval.Key("buildings", reqval.JsonObject(
				reqval.Key("warehouses", reqval.JsonObject(
					reqval.Key("small", reqval.JsonObject(
						reqval.Key("count", reqval.JsonLeaf(reqval.Min(0, true), reqval.Max(99, true))),
					)),
					reqval.Key("large", reqval.JsonLeaf(reqval.Min(1, true), reqval.Max(10, true))),
				)),
			)),
			reqval.Key("not_required", reqval.JsonObject(
				reqval.Key("text", reqval.JsonLeaf()),
			).Optional()),
		)),
	)
}

func contactsSchema() *reqval.JsonParam {
	return reqval.JsonObject(
		reqval.Key("person", reqval.JsonObject(
			reqval.Key("info", reqval.JsonObject(
				reqval.Key("contacts", reqval.JsonObject(
					reqval.Key("phones", reqval.JsonScalarList(reqval.Enum("+375", "+49"))),
					reqval.Key("networks", reqval.JsonList(
						reqval.Key("name", reqval.JsonLeaf(reqval.Enum("facebook", "telegram"))),
					)),
					reqval.Key("emails", reqval.JsonScalarList(reqval.IsEmail())),
					reqval.Key("addresses", reqval.JsonObject(
						reqval.Key("street", reqval.JsonLeaf()),
					).Optional()),
				)),
			)),
		)),
	)
}

func TestJsonParamObjectSchema(t *testing.T) {
	t.Parallel()

	t.Run("reports every level in depth-first order", func(t *testing.T) {
		_, errs := warehouseSchema().Validate(map[string]any{
			"street": "Rampische",
			"meta": map[string]any{
				"buildings": map[string]any{
					"warehouses": map[string]any{
						"small": map[string]any{"count": 100},
						"large": 0,
					},
				},
			},
		})
		require.Len(t, errs, 4)

		assert.Equal(t, []string{"root", "meta", "buildings", "warehouses", "small"}, errs[0].Depth)
		require.Contains(t, errs[0].Errors, "count")
		countErr := errs[0].Errors["count"].(reqval.RulesError)
		require.Len(t, countErr.Errors, 1)
		assert.Equal(t, reqval.ValueMaxError{Bound: 99, IncludeBoundary: true}, countErr.Errors[0])

		assert.Equal(t, []string{"root", "meta", "buildings", "warehouses"}, errs[1].Depth)
		largeErr := errs[1].Errors["large"].(reqval.RulesError)
		require.Len(t, largeErr.Errors, 1)
		assert.Equal(t, reqval.ValueMinError{Bound: 1, IncludeBoundary: true}, largeErr.Errors[0])

		assert.Equal(t, []string{"root", "meta"}, errs[2].Depth)
		assert.Equal(t, reqval.RequiredJsonKeyError{Key: "description"}, errs[2].Errors["description"])

		assert.Equal(t, []string{"root"}, errs[3].Depth)
		streetErr := errs[3].Errors["street"].(reqval.RulesError)
		require.Len(t, streetErr.Errors, 1)
		assert.IsType(t, reqval.ValueEnumError{}, streetErr.Errors[0])
	})

	t.Run("valid input yields no errors and ignores undeclared keys", func(t *testing.T) {
		data := map[string]any{
			"country": "Belarus",
			"city":    "Minsk",
			"street":  "Jakuba Kolasa",
			"meta": map[string]any{
				"buildings": map[string]any{
					"warehouses": map[string]any{
						"small": map[string]any{"count": 99},
						"large": 1,
					},
				},
				"description": map[string]any{"color": "green"},
			},
		}
		cleaned, errs := warehouseSchema().Validate(data)
		assert.Empty(t, errs)
		assert.Equal(t, data, cleaned)
	})

	t.Run("clean sibling branches emit no spurious errors", func(t *testing.T) {
		schema := reqval.JsonObject(
			reqval.Key("k1", reqval.JsonObject(
				reqval.Key("k2", reqval.JsonObject(
					reqval.Key("k3", reqval.JsonObject(
						reqval.Key("leaf", reqval.JsonLeaf(reqval.Min(10, true))),
					)),
				)),
			)),
			reqval.Key("clean", reqval.JsonObject(
				reqval.Key("leaf", reqval.JsonLeaf(reqval.Min(0, true))),
			)),
		)
		_, errs := schema.Validate(map[string]any{
			"k1":    map[string]any{"k2": map[string]any{"k3": map[string]any{"leaf": 5}}},
			"clean": map[string]any{"leaf": 7},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"root", "k1", "k2", "k3"}, errs[0].Depth)
	})

	t.Run("sibling failures at one level share one JsonError", func(t *testing.T) {
		schema := reqval.JsonObject(
			reqval.Key("age", reqval.JsonLeaf(reqval.Number())),
			reqval.Key("name", reqval.JsonLeaf(reqval.MinLength(3))),
		)
		_, errs := schema.Validate(map[string]any{"age": "ab", "name": "x"})
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"root"}, errs[0].Depth)
		assert.Len(t, errs[0].Errors, 2)
		assert.Contains(t, errs[0].Errors, "age")
		assert.Contains(t, errs[0].Errors, "name")
	})

	t.Run("failing leaves keep the raw value, passing leaves are normalized", func(t *testing.T) {
		schema := reqval.JsonObject(
			reqval.Key("title", reqval.JsonLeaf(reqval.NotEmpty())),
			reqval.Key("count", reqval.JsonLeaf(reqval.Min(1, true))),
		)
		cleaned, errs := schema.Validate(map[string]any{
			"title": "  hello  ",
			"count": 0,
		})
		require.Len(t, errs, 1)

		obj := cleaned.(map[string]any)
		assert.Equal(t, "hello", obj["title"])
		assert.Equal(t, 0, obj["count"])
	})

	t.Run("non-object input is a shape error without descent", func(t *testing.T) {
		_, errs := warehouseSchema().Validate("not an object")
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"root"}, errs[0].Depth)
		assert.Equal(t, reqval.JsonDictExpectedError{}, errs[0].Shape)
	})
}

func TestJsonParamListSchema(t *testing.T) {
	t.Parallel()

	t.Run("reports item shape and item rule failures per list level", func(t *testing.T) {
		_, errs := contactsSchema().Validate(map[string]any{
			"person": map[string]any{
				"info": map[string]any{
					"contacts": map[string]any{
						"phones": []any{
							"+375",
							"+49",
							map[string]any{"code": "+420"},
							map[string]any{"code": "+10000"},
						},
						"emails": []any{
							map[string]any{"work": "bad_type1"},
							map[string]any{"work": "bad_type2"},
							"bad_mail",
						},
						"networks": []any{
							map[string]any{"name": "facebook"},
							map[string]any{"name": "insta"},
							map[string]any{"name": "linkedin"},
						},
					},
				},
			},
		})
		require.Len(t, errs, 3)

		phones := errs[0]
		assert.Equal(t, []string{"root", "person", "info", "contacts", "phones"}, phones.Depth)
		require.Len(t, phones.Errors, 2)
		assert.Equal(t, reqval.JsonListItemTypeError{OnlyDict: false}, phones.Errors["2"])
		assert.Equal(t, reqval.JsonListItemTypeError{OnlyDict: false}, phones.Errors["3"])

		networks := errs[1]
		assert.Equal(t, []string{"root", "person", "info", "contacts", "networks"}, networks.Depth)
		require.Len(t, networks.Errors, 2)
		for _, ix := range []string{"1", "2"} {
			keyErrs, ok := networks.Errors[ix].(reqval.KeyErrors)
			require.True(t, ok, "index %s", ix)
			nameErr := keyErrs["name"].(reqval.RulesError)
			require.Len(t, nameErr.Errors, 1)
			assert.IsType(t, reqval.ValueEnumError{}, nameErr.Errors[0])
		}

		emails := errs[2]
		assert.Equal(t, []string{"root", "person", "info", "contacts", "emails"}, emails.Depth)
		require.Len(t, emails.Errors, 3)
		assert.Equal(t, reqval.JsonListItemTypeError{OnlyDict: false}, emails.Errors["0"])
		assert.Equal(t, reqval.JsonListItemTypeError{OnlyDict: false}, emails.Errors["1"])
		mailErr := emails.Errors["2"].(reqval.RulesError)
		require.Len(t, mailErr.Errors, 1)
		assert.Equal(t, reqval.ValueEmailError{}, mailErr.Errors[0])
	})

	t.Run("valid lists yield no errors", func(t *testing.T) {
		data := map[string]any{
			"person": map[string]any{
				"info": map[string]any{
					"contacts": map[string]any{
						"phones": []any{"+375", "+49"},
						"networks": []any{
							map[string]any{"name": "facebook"},
							map[string]any{"name": "telegram"},
							map[string]any{"name": "telegram"},
							map[string]any{"name": "facebook"},
						},
						"emails": []any{"test@gmail.com"},
					},
				},
			},
		}
		cleaned, errs := contactsSchema().Validate(data)
		assert.Empty(t, errs)
		assert.Equal(t, data, cleaned)
	})

	t.Run("expected objects but got a scalar item", func(t *testing.T) {
		schema := reqval.JsonList(reqval.Key("a", reqval.JsonLeaf(reqval.Number())))
		_, errs := schema.Validate([]any{"a"})
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"root"}, errs[0].Depth)
		assert.Equal(t, reqval.JsonListItemTypeError{OnlyDict: true}, errs[0].Errors["0"])
	})

	t.Run("expected scalars but got an object item", func(t *testing.T) {
		schema := reqval.JsonScalarList(reqval.Number())
		_, errs := schema.Validate([]any{map[string]any{"a": 1}})
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"root"}, errs[0].Depth)
		assert.Equal(t, reqval.JsonListItemTypeError{OnlyDict: false}, errs[0].Errors["0"])
	})

	t.Run("nil scalar items are skipped", func(t *testing.T) {
		schema := reqval.JsonScalarList(reqval.Enum("+375"))
		cleaned, errs := schema.Validate([]any{nil, "+375"})
		assert.Empty(t, errs)
		assert.Equal(t, []any{nil, "+375"}, cleaned)
	})
}

func TestJsonParamRootList(t *testing.T) {
	t.Parallel()

	rootSchema := func() *reqval.JsonParam {
		return reqval.JsonList(
			reqval.Key("age", reqval.JsonLeaf(reqval.Number())),
			reqval.Key("name", reqval.JsonLeaf(reqval.MinLength(1))),
			reqval.Key("tags", reqval.JsonList(
				reqval.Key("name", reqval.JsonLeaf(reqval.MinLength(1))),
			).Optional()),
		)
	}

	t.Run("valid root lists round-trip through cleaning", func(t *testing.T) {
		for _, data := range [][]any{
			{
				map[string]any{"age": 10, "name": "test"},
				map[string]any{"age": 20, "name": "test2"},
				map[string]any{"age": 30, "name": "test3"},
			},
			{
				map[string]any{"age": 10, "name": "test", "tags": []any{
					map[string]any{"name": "green"},
					map[string]any{"name": "light"},
				}},
				map[string]any{"age": 20, "name": "test2"},
				map[string]any{"age": 30, "name": "test3", "tags": []any{
					map[string]any{"name": "cat"},
					map[string]any{"name": "dog"},
				}},
			},
		} {
			cleaned, errs := rootSchema().Validate(data)
			assert.Empty(t, errs)
			assert.Equal(t, data, cleaned)
		}
	})

	t.Run("invalid items collect into one root-level JsonError", func(t *testing.T) {
		_, errs := rootSchema().Validate([]any{
			map[string]any{"age": "ab", "name": "test"},
			map[string]any{"age": "c", "name": ""},
			map[string]any{"age": 15, "name": "good"},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"root"}, errs[0].Depth)
		require.Len(t, errs[0].Errors, 2)

		first := errs[0].Errors["0"].(reqval.KeyErrors)
		ageErr := first["age"].(reqval.RulesError)
		require.Len(t, ageErr.Errors, 1)
		assert.Equal(t, reqval.NumberError{}, ageErr.Errors[0])

		second := errs[0].Errors["1"].(reqval.KeyErrors)
		assert.Equal(t, reqval.NumberError{}, second["age"].(reqval.RulesError).Errors[0])
		assert.Equal(t, reqval.ValueMinLengthError{Length: 1}, second["name"].(reqval.RulesError).Errors[0])
	})

	t.Run("mapping instead of list is one shape error with zero descent", func(t *testing.T) {
		_, errs := rootSchema().Validate(map[string]any{"age": 18, "name": "test"})
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"root"}, errs[0].Depth)
		assert.Equal(t, reqval.JsonListExpectedError{}, errs[0].Shape)
		assert.Empty(t, errs[0].Errors)
	})

	t.Run("nested scalar where a list is declared", func(t *testing.T) {
		_, errs := rootSchema().Validate([]any{
			map[string]any{"age": 27, "name": "test"},
			map[string]any{"age": 15, "name": "good", "tags": "bad_type"},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"root", "tags"}, errs[0].Depth)
		assert.Equal(t, reqval.JsonListExpectedError{}, errs[0].Shape)
	})
}

func TestJsonParamDepthCap(t *testing.T) {
	t.Parallel()

	schema := reqval.JsonObject(reqval.Key("v", reqval.JsonLeaf(reqval.Number())))
	data := any(map[string]any{"v": 1})
	for range 200 {
		schema = reqval.JsonObject(reqval.Key("n", schema))
		data = map[string]any{"n": data}
	}

	_, errs := schema.Validate(data)
	require.Len(t, errs, 1)
	assert.Equal(t, reqval.MaxDepthError{}, errs[0].Shape)
}

func TestJsonParamConcurrentReuse(t *testing.T) {
	t.Parallel()

	schema := warehouseSchema()
	valid := map[string]any{
		"street": "Jakuba Kolasa",
		"meta": map[string]any{
			"buildings": map[string]any{
				"warehouses": map[string]any{
					"small": map[string]any{"count": 50},
					"large": 5,
				},
			},
			"description": map[string]any{"color": "blue"},
		},
	}

	results := make(chan int, 8)
	for i := 0; i < 8; i++ {
		go func() {
			failures := 0
			for j := 0; j < 100; j++ {
				if _, errs := schema.Validate(valid); len(errs) != 0 {
					failures++
				}
			}
			results <- failures
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Zero(t, <-results)
	}
}

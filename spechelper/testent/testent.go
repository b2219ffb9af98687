// Package testent holds shared example entities for testing purposes.
package testent

import (
	"testing"

	"github.com/Pallinder/go-randomdata"
)

type (
	Foo struct {
		ID  FooID
		Foo string
		Bar string
		Baz string
	}
	FooID string
)

func MakeFoo(tb testing.TB) Foo {
	return Foo{
		Foo: randomdata.SillyName(),
		Bar: randomdata.Noun(),
		Baz: randomdata.Adjective(),
	}
}

type FooDTO struct {
	ID  string `json:"id"`
	Foo string `json:"foo"`
	Bar string `json:"bar"`
	Baz string `json:"baz"`
}

type FooJSONMapping struct{}

func (n FooJSONMapping) ToDTO(ent Foo) (FooDTO, error) {
	return FooDTO{ID: string(ent.ID), Foo: ent.Foo, Bar: ent.Bar, Baz: ent.Baz}, nil
}

func (n FooJSONMapping) ToEnt(dto FooDTO) (Foo, error) {
	return Foo{ID: FooID(dto.ID), Foo: dto.Foo, Bar: dto.Bar, Baz: dto.Baz}, nil
}

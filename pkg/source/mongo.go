package source

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/anemcalc/pkg/errors"
)

// MongoConfig locates the formula tables in MongoDB.
//
// The formulas collection holds one document per composite component:
//
//	{"name": "Assassin", "components": ["Deadeye", "Vampiric"]}
//
// The components collection holds one {"name": ...} document per valid name.
type MongoConfig struct {
	URI                  string
	Database             string
	FormulasCollection   string
	ComponentsCollection string
	Timeout              time.Duration
}

// Defaults for [MongoConfig].
const (
	DefaultMongoDatabase  = "anemcalc"
	DefaultFormulasColl   = "formulas"
	DefaultComponentsColl = "components"
	DefaultMongoTimeout   = 10 * time.Second
)

func (c MongoConfig) withDefaults() MongoConfig {
	if c.Database == "" {
		c.Database = DefaultMongoDatabase
	}
	if c.FormulasCollection == "" {
		c.FormulasCollection = DefaultFormulasColl
	}
	if c.ComponentsCollection == "" {
		c.ComponentsCollection = DefaultComponentsColl
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultMongoTimeout
	}
	return c
}

type formulaDoc struct {
	Name       string   `bson:"name"`
	Components []string `bson:"components"`
}

type componentDoc struct {
	Name string `bson:"name"`
}

// LoadMongo reads the formula and component collections. The whole load is
// bounded by cfg.Timeout.
func LoadMongo(ctx context.Context, cfg MongoConfig) (Tables, error) {
	if cfg.URI == "" {
		return Tables{}, errors.New(errors.ErrCodeInvalidSource, "mongo URI cannot be empty")
	}
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return Tables{}, errors.Wrap(errors.ErrCodeUnavailable, err, "connect to mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.Database)

	var formulas []formulaDoc
	if err := findAll(ctx, db.Collection(cfg.FormulasCollection), &formulas); err != nil {
		return Tables{}, err
	}
	var components []componentDoc
	if err := findAll(ctx, db.Collection(cfg.ComponentsCollection), &components); err != nil {
		return Tables{}, err
	}

	t := tablesFromDocs(formulas, components)
	if err := mustNotBeEmpty(t, "mongo database "+cfg.Database); err != nil {
		return Tables{}, err
	}
	return t, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, out any) error {
	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, err, "query %s", coll.Name())
	}
	if err := cur.All(ctx, out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSource, err, "decode %s", coll.Name())
	}
	return nil
}

func tablesFromDocs(formulas []formulaDoc, components []componentDoc) Tables {
	t := Tables{Formulas: make(map[string][]string, len(formulas))}
	for _, f := range formulas {
		t.Formulas[f.Name] = f.Components
	}
	for _, c := range components {
		t.Universe = append(t.Universe, c.Name)
	}
	return t
}

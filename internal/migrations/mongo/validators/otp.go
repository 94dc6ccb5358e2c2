package validators

import "go.mongodb.org/mongo-driver/bson"

var OtpChallengeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"code",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"code": bson.M{
				"bsonType":  "string",
				"minLength": 6,
				"maxLength": 6,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

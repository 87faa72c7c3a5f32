package validators

import "go.mongodb.org/mongo-driver/bson"

var dateStamp = bson.M{
	"bsonType": "string",
	"pattern":  `^[0-9]{8}$`,
}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"restaurantId",
			"reservationDate",
			"guestNumber",
			"costPerPerson",
			"totalAmount",
			"paymentStatus",
			"bookingStatus",
			"status",
			"created_by",
			"created_when",
			"updated_by",
			"updated_when",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"restaurantId": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"paymentId": bson.M{
				"bsonType": []string{"string", "null"},
			},

			"reservationDate": bson.M{
				"bsonType": "object",
				"required": []string{"startFrom", "to"},
				"properties": bson.M{
					"startFrom": bson.M{"bsonType": "date"},
					"to":        bson.M{"bsonType": "date"},
				},
			},

			"reservationRequest": bson.M{
				"bsonType": "string",
			},

			"guestNumber": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"costPerPerson": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"totalAmount": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"paymentStatus": bson.M{
				"bsonType": "string",
				"enum":     []string{"Unpaid", "Paid", "Cash Pending"},
			},

			"bookingStatus": bson.M{
				"bsonType": "string",
				"enum":     []string{"Pending", "Completed", "Cancelled"},
			},

			"status": bson.M{
				"bsonType": []string{"int", "long"},
				"enum":     []int{0, 1},
			},

			"created_by":   bson.M{"bsonType": "string"},
			"created_when": dateStamp,
			"updated_by":   bson.M{"bsonType": "string"},
			"updated_when": dateStamp,
		},
	},
}

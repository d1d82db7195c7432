// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Merchant-scoped collections read by the built-in reports.
const (
	ProjectsCollection            = "projects"
	ProjectDeliverablesCollection = "projectDeliverables"
	DeliverablesCollection        = "deliverables"
	EventsCollection              = "events"
)

// TrackDeliverablesPipeline groups a project's deliverables with their
// catalogue entries. It runs against ProjectDeliverablesCollection and yields
// at most one document: {projectId, projectName, deliverables: [...]}.
func TrackDeliverablesPipeline(projectID string) Pipeline {
	return Pipeline{
		{"$match": bson.M{"projectId": projectID}},
		{"$lookup": bson.M{
			"from":         ProjectsCollection,
			"localField":   "projectId",
			"foreignField": "id",
			"as":           "projectInfo",
		}},
		{"$lookup": bson.M{
			"from":         DeliverablesCollection,
			"localField":   "deliverableId",
			"foreignField": "id",
			"as":           "deliverableInfo",
		}},
		{"$unwind": "$projectInfo"},
		{"$unwind": "$deliverableInfo"},
		{"$addFields": bson.M{
			"projectId":       "$projectInfo.id",
			"projectName":     "$projectInfo.name",
			"deliverableName": "$deliverableInfo.displayName",
			"deliverableType": "$deliverableInfo.type",
			"deliveryTime":    "$deliverableInfo.deliveryTime",
			"assetType":       "$deliverableInfo.assetType",
		}},
		{"$project": bson.M{
			"projectInfo":     0,
			"deliverableId":   0,
			"deliverableInfo": 0,
		}},
		{"$group": bson.M{
			"_id": bson.M{
				"projectName": "$projectName",
				"projectId":   "$projectId",
			},
			"deliverables": bson.M{"$push": bson.M{
				"deliverableName": "$deliverableName",
				"deliverableType": "$deliverableType",
				"deliveryTime":    "$deliveryTime",
				"assetType":       "$assetType",
				"deliveryUpdates": "$deliveryUpdates",
				"isDelivered":     "$isDelivered",
			}},
		}},
		{"$project": bson.M{
			"_id":          0,
			"projectId":    "$_id.projectId",
			"projectName":  "$_id.projectName",
			"deliverables": 1,
		}},
	}
}

// OccupiedIDsPipeline collects the employee ids booked on any event that
// overlaps [start, end). It runs against EventsCollection and yields at most
// one document: {occupiedEmployeeIds: [...]}.
func OccupiedIDsPipeline(start, end time.Time) Pipeline {
	return Pipeline{
		{"$match": bson.M{"$expr": bson.M{"$and": bson.A{
			bson.M{"$lt": bson.A{"$startDateTime", end}},
			bson.M{"$gt": bson.A{"$endDateTime", start}},
		}}}},
		{"$unwind": "$team"},
		{"$group": bson.M{
			"_id":                 nil,
			"occupiedEmployeeIds": bson.M{"$addToSet": "$team.employeeId"},
		}},
		{"$project": bson.M{
			"_id":                 0,
			"occupiedEmployeeIds": 1,
		}},
	}
}

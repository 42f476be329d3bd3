//
// libsl is client that interacts with a sharedlist store for syncing a shopping list.
//

// Create client
//
//	client, err := libsl.NewDefaultClient("https://list.nas.lan", apikey)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Get all items
//
//	items, err := client.ListItems(ctx) // Newest first.
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, item := range items {
//		fmt.Printf("%s x%d (%.2f) by %s\n", item.Name, item.Qty(), item.Amount(), item.Buyer())
//	}
//
// Add an item
//
//	item, err := client.InsertItem(ctx, libsl.Draft{
//		Name:     "Milk",
//		Quantity: 2,
//		Price:    1.15,
//		AddedBy:  "Ana",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Update an item
//
//	item, err = client.UpdateItem(ctx, item.ID, libsl.Fields{
//		Purchased: libsl.Bool(true),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Follow the changes
//
//	sub, err := client.Subscribe(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sub.Close()
//
//	for ev := range sub.Events() {
//		switch ev.Type {
//		case libsl.EventInsert, libsl.EventUpdate:
//			fmt.Println(ev.Type, ev.New.Name)
//		case libsl.EventDelete:
//			fmt.Println(ev.Type, ev.Old.ID)
//		}
//	}
//	if err := sub.Err(); err != nil {
//		log.Fatal(err)
//	}
package libsl
